package record

import (
	"encoding/binary"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	apperrors "github.com/louisbranch/missionkit/internal/platform/errors"
)

// Wire layout, big-endian:
//
//	requirement  int32
//	progress     int32
//	id           [16]byte
//	flags        byte     bit 0 completed, bit 1 expiry present
//	expires_at   int64    unix millis, only when flag bit 1 is set
//	config_id    UTF-8    remainder of the buffer
//
// Records without an expiry encode to the legacy 25-byte header layout.
const (
	// HeaderSize is the length of the fixed header preceding optional fields.
	HeaderSize = 4 + 4 + 16 + 1

	flagCompleted byte = 1 << 0
	flagExpiry    byte = 1 << 1
	knownFlags         = flagCompleted | flagExpiry

	expirySize = 8
)

// ErrCorruptRecord indicates a carrier blob that cannot be decoded.
var ErrCorruptRecord = apperrors.New(apperrors.CodeMissionCorruptRecord, "corrupt mission record")

// Encode serializes the record into its carrier blob.
func Encode(r Record) []byte {
	size := HeaderSize + len(r.configID)
	if r.Expires() {
		size += expirySize
	}
	buf := make([]byte, 0, size)
	buf = binary.BigEndian.AppendUint32(buf, uint32(int32(r.requirement)))
	buf = binary.BigEndian.AppendUint32(buf, uint32(int32(r.progress)))
	buf = append(buf, r.id[:]...)

	var flags byte
	if r.completed {
		flags |= flagCompleted
	}
	if r.Expires() {
		flags |= flagExpiry
	}
	buf = append(buf, flags)
	if r.Expires() {
		buf = binary.BigEndian.AppendUint64(buf, uint64(r.expiresAt.UnixMilli()))
	}
	return append(buf, r.configID...)
}

// Decode parses a carrier blob. Any malformed input yields an error
// matching ErrCorruptRecord.
func Decode(data []byte) (Record, error) {
	if len(data) < HeaderSize {
		return Record{}, corrupt(fmt.Sprintf("header needs %d bytes, got %d", HeaderSize, len(data)))
	}
	requirement := int(int32(binary.BigEndian.Uint32(data[0:4])))
	progress := int(int32(binary.BigEndian.Uint32(data[4:8])))
	recordID, err := uuid.FromBytes(data[8:24])
	if err != nil {
		return Record{}, corrupt("invalid id")
	}
	flags := data[24]
	if flags&^knownFlags != 0 {
		return Record{}, corrupt(fmt.Sprintf("unknown flags 0x%02x", flags))
	}
	rest := data[HeaderSize:]

	var expiresAt time.Time
	if flags&flagExpiry != 0 {
		if len(rest) < expirySize {
			return Record{}, corrupt("truncated expiry")
		}
		expiresAt = time.UnixMilli(int64(binary.BigEndian.Uint64(rest[:expirySize]))).UTC()
		rest = rest[expirySize:]
	}

	if requirement < 1 {
		return Record{}, corrupt(fmt.Sprintf("requirement %d below 1", requirement))
	}
	if progress < 0 || progress > requirement {
		return Record{}, corrupt(fmt.Sprintf("progress %d outside [0, %d]", progress, requirement))
	}
	if !utf8.Valid(rest) {
		return Record{}, corrupt("config id is not valid UTF-8")
	}

	return Record{
		id:          recordID,
		configID:    string(rest),
		progress:    progress,
		requirement: requirement,
		completed:   flags&flagCompleted != 0,
		expiresAt:   expiresAt,
	}, nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (r Record) MarshalBinary() ([]byte, error) {
	return Encode(r), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (r *Record) UnmarshalBinary(data []byte) error {
	decoded, err := Decode(data)
	if err != nil {
		return err
	}
	*r = decoded
	return nil
}

func corrupt(reason string) error {
	return apperrors.WithMetadata(apperrors.CodeMissionCorruptRecord,
		"corrupt mission record: "+reason,
		map[string]string{"Reason": reason})
}
