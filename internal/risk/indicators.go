// indicators.go — the two ordered indicator tables and the critical-security
// set (spec §4.1).
package risk

// highIndicators are substring tokens that classify a finding as high
// severity. Order doesn't matter for matching (every indicator is checked),
// but the table is kept in the order the spec lists it for readability.
var highIndicators = []string{
	"DROP TABLE",
	"DROP COLUMN",
	"TRUNCATE TABLE",
	"DROP CONSTRAINT",
	"COLUMN LOSS",
	"API_DELETION",
	"BREAKING_CHANGE",
	"SECURITY_GROUP_DELETION",
	"RESOURCE_DELETION",
	"SECRET_KEY_ADDED",
	"SECRET_KEY_REMOVED",
	"MAJOR_VERSION_BUMP",
	"SECURITY_VULNERABILITY",
	"CVE_DETECTED",
	"INTEGRITY_MISMATCH",
	"TRANSITIVE_MAJOR_BUMP",
}

// highPatterns are regex patterns (matched case-insensitively) over
// property-level change indicators.
var highPatterns = []string{
	`cidr.*0\.0\.0\.0/0`,
	`DeletionPolicy.*Delete`,
	`publicly.*true`,
	`encryption.*false`,
	`ssl.*false`,
}

var mediumIndicators = []string{
	"TYPE NARROWING",
	"NOT NULL",
	"REQUIRED",
	"COLUMN RENAME",
	"ADD CONSTRAINT",
	"API_EXPANSION",
	"SECURITY_GROUP_CHANGE",
	"COST_INCREASE",
	"FEATURE_FLAG_",
	"CONTAINER_REMOVED",
	"DEPENDENCY_REMOVED",
	"MINOR_VERSION_BUMP",
	"LICENSE_CHANGE",
	"DEPRECATED_PACKAGE",
	"TRANSITIVE_DEPENDENCIES_CHANGED",
	"NEW_LOCK_FILE",
}

var mediumPatterns = []string{
	`port.*(modified|changed)`,
	`timeout.*(modified|changed)`,
	`size.*(modified|changed)`,
	`ingress`,
	`egress`,
}

// criticalIndicators identify a finding as "critical" per the
// critical-security safety rail: cannot be downgraded by correlation
// reassessment, and is forced to high if it isn't already.
var criticalIndicators = []string{
	"SECURITY_VULNERABILITY",
	"CVE_DETECTED",
	"CVE-",
	"DROP TABLE",
	"DROP COLUMN",
	"TRUNCATE TABLE",
	"SECURITY_GROUP_DELETION",
	"SECRET_KEY_ADDED",
	"SECRET_KEY_REMOVED",
	"INTEGRITY_MISMATCH",
	"MALICIOUS_PACKAGE",
}
