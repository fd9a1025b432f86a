package scene

import (
	"fmt"
	"strings"
)

// ValidationErrors holds every problem found while validating a scene
type ValidationErrors []string

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return ""
	}
	if len(ve) == 1 {
		return ve[0]
	}
	return fmt.Sprintf("%d validation errors: %s", len(ve), strings.Join(ve, "; "))
}
