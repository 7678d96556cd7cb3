package definition

import "strings"

// PlayerPlaceholder in a reward is replaced by the claiming holder's name.
const PlayerPlaceholder = "<player>"

// RewardKind distinguishes reward lines.
type RewardKind uint8

const (
	// RewardCommand is a console command run by the host.
	RewardCommand RewardKind = iota
	// RewardMessage is a message sent to the holder.
	RewardMessage
)

// Reward is an expanded reward line.
type Reward struct {
	Kind RewardKind
	Text string
}

// ExpandRewards substitutes the holder name into every reward. Lines
// starting with "say " become messages.
func ExpandRewards(rewards []string, holder string) []Reward {
	out := make([]Reward, 0, len(rewards))
	for _, line := range rewards {
		line = strings.ReplaceAll(line, PlayerPlaceholder, holder)
		if rest, ok := strings.CutPrefix(line, "say "); ok {
			out = append(out, Reward{Kind: RewardMessage, Text: strings.TrimSpace(rest)})
			continue
		}
		out = append(out, Reward{Kind: RewardCommand, Text: line})
	}
	return out
}
