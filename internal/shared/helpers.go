// Package shared provides small utility functions used across multiple
// packages in the importer.
package shared

import (
	"fmt"
	"os/user"
)

// HTTPStatusErrorWithBody creates a formatted error that includes the
// response body for non-2xx HTTP responses.
func HTTPStatusErrorWithBody(status int, url string, body string) error {
	return fmt.Errorf("status=%d url=%s response=%s", status, url, body)
}

// CurrentUserKey returns the identity used to key the staged host file,
// falling back to "default" when the process user cannot be determined.
func CurrentUserKey() string {
	current, err := user.Current()
	if err != nil || current.Username == "" {
		return "default"
	}
	return current.Username
}
