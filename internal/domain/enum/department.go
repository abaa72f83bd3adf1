package enum

import (
	"database/sql/driver"
	"fmt"
)

// DepartmentLevel is the depth of a node in the department hierarchy.
type DepartmentLevel string

const (
	DepartmentLevelBig    DepartmentLevel = "big"
	DepartmentLevelMiddle DepartmentLevel = "middle"
	DepartmentLevelSmall  DepartmentLevel = "small"
)

// InheritableFlag is a department attribute that may allow, deny, or defer to
// the parent department. The zero value inherits, so a freshly created node
// follows its ancestor chain until a node decides.
type InheritableFlag int

const (
	FlagInherit InheritableFlag = 0
	FlagAllow   InheritableFlag = 1
	FlagDeny    InheritableFlag = 2
)

func (f InheritableFlag) String() string {
	switch f {
	case FlagAllow:
		return "allow"
	case FlagDeny:
		return "deny"
	default:
		return "inherit"
	}
}

func (f InheritableFlag) Value() (driver.Value, error) {
	return int64(f), nil
}

func (f *InheritableFlag) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*f = FlagInherit
	case int64:
		*f = InheritableFlag(v)
	case int:
		*f = InheritableFlag(v)
	default:
		return fmt.Errorf("unsupported flag value %T", value)
	}
	return nil
}

// TaxRateInherit marks a department tax rate that defers to the parent.
const TaxRateInherit = -1
