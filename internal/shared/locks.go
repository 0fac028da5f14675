package shared

import "fmt"

// LockKey builds redis keys for critical sections.
func LockKey(scope string, id any) string {
	return fmt.Sprintf("rentaldesk:%s:%v:lock", scope, id)
}
