package enums

import "fmt"

// Action tags an activity-log entry with the operation that produced it.
type Action string

const (
	ActionLogin                Action = "LOGIN"
	ActionRegister             Action = "REGISTER"
	ActionPasswordResetRequest Action = "PASSWORD_RESET_REQUEST"
	ActionPasswordReset        Action = "PASSWORD_RESET"
	ActionProfileUpdate        Action = "PROFILE_UPDATE"
	ActionRoleChange           Action = "ROLE_CHANGE"
)

var validActions = []Action{
	ActionLogin,
	ActionRegister,
	ActionPasswordResetRequest,
	ActionPasswordReset,
	ActionProfileUpdate,
	ActionRoleChange,
}

func (a Action) String() string {
	return string(a)
}

// IsValid reports whether the value is a known Action.
func (a Action) IsValid() bool {
	for _, candidate := range validActions {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAction converts raw input into an Action.
func ParseAction(value string) (Action, error) {
	for _, candidate := range validActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid action %q", value)
}
