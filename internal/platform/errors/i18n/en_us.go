package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeMissionCorruptRecord       = "MISSION_CORRUPT_RECORD"
	CodeMissionInvariantViolation  = "MISSION_INVARIANT_VIOLATION"
	CodeMissionNotFound            = "MISSION_NOT_FOUND"
	CodeMissionNotCompleted        = "MISSION_NOT_COMPLETED"
	CodeMissionBrokenConfig        = "MISSION_BROKEN_CONFIG"
	CodeMissionClaimVetoed         = "MISSION_CLAIM_VETOED"
	CodeMissionInvalidTargetShape  = "MISSION_INVALID_TARGET_SHAPE"
	CodeMissionRequirementInvalid  = "MISSION_REQUIREMENT_INVALID"
	CodeMissionConfigIDEmpty       = "MISSION_CONFIG_ID_EMPTY"
	CodeMissionTypeDuplicate       = "MISSION_TYPE_DUPLICATE"
	CodeMissionTypeIDEmpty         = "MISSION_TYPE_ID_EMPTY"
	CodeMissionRegistryFrozen      = "MISSION_REGISTRY_FROZEN"
	CodeMissionTypeUnknown         = "MISSION_TYPE_UNKNOWN"
	CodeMissionDefinitionInvalid   = "MISSION_DEFINITION_INVALID"
	CodeMissionDefinitionDuplicate = "MISSION_DEFINITION_DUPLICATE"
	CodeMissionCategoryUnknown     = "MISSION_CATEGORY_UNKNOWN"
)

var enUSCatalog = &Catalog{
	locale: BaseLocale,
	messages: map[Code]string{
		// Record errors
		CodeMissionCorruptRecord:      "The mission data on this item is unreadable",
		CodeMissionInvariantViolation: "Progress changes must not be negative",
		CodeMissionNotFound:           "{{if .Key}}Unknown mission {{.Key}}{{if .Suggestion}}, did you mean {{.Suggestion}}?{{end}}{{else if .Category}}No mission found in category {{.Category}}{{else}}You must be holding a mission to do that{{end}}",
		CodeMissionNotCompleted:       "Mission {{.ConfigID}} is not completed yet",
		CodeMissionBrokenConfig:       "Mission config {{.ConfigID}} is missing or invalid",
		CodeMissionClaimVetoed:        "The reward claim was blocked",
		CodeMissionInvalidTargetShape: "Target {{.Target}} does not fit mission type {{.Type}}",
		CodeMissionRequirementInvalid: "Requirement must be between 1 and 2147483647",
		CodeMissionConfigIDEmpty:      "Mission config ID cannot be empty",

		// Type registry errors
		CodeMissionTypeDuplicate:  "Mission type {{.Type}} already exists",
		CodeMissionTypeIDEmpty:    "Mission type ID cannot be empty",
		CodeMissionRegistryFrozen: "Mission types cannot be registered after startup",
		CodeMissionTypeUnknown:    "Unknown mission type {{.Type}}{{if .Suggestion}}, did you mean {{.Suggestion}}?{{end}}",

		// Definition errors
		CodeMissionDefinitionInvalid:   "Mission {{.Key}} is misconfigured: {{.Reason}}",
		CodeMissionDefinitionDuplicate: "Mission {{.Key}} is defined more than once",
		CodeMissionCategoryUnknown:     "Unknown category {{.Category}}{{if .Suggestion}}, did you mean {{.Suggestion}}?{{end}}",
	},
}
