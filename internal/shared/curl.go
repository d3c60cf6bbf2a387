// Utilities for lifting backend session cookies out of a browser "Copy as cURL" command.
package shared

import (
	"fmt"
	"net/http"
	"os"
	"regexp"
	"strings"
)

var (
	headerRegex = regexp.MustCompile(`-H\s+'([^']+)'|-H\s+"([^"]+)"`)
	cookieRegex = regexp.MustCompile(`(?:-b|--cookie)\s+'([^']+)'|(?:-b|--cookie)\s+"([^"]+)"`)
)

// CurlRequest represents the session cookie parsed from a cURL command.
type CurlRequest struct {
	Cookie string
}

// ParseCurlFile reads a .sh file containing a cURL command and extracts its cookie line.
func ParseCurlFile(path string) (*CurlRequest, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read curl file: %w", err)
	}

	return ParseCurlCommand(string(content))
}

// ParseCurlCommand parses a cURL command string and extracts the cookie line.
//
// A -b/--cookie flag wins over a Cookie header. Commands without any header or cookie are rejected.
func ParseCurlCommand(curlCmd string) (*CurlRequest, error) {
	curlCmd = strings.ReplaceAll(curlCmd, "\\\n", " ")
	curlCmd = strings.ReplaceAll(curlCmd, "\\", "")

	var headerCount int
	var headerCookie string

	for _, match := range headerRegex.FindAllStringSubmatch(curlCmd, -1) {
		line := firstNonEmpty(match[1], match[2])

		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		headerCount++

		if strings.EqualFold(strings.TrimSpace(key), "cookie") && headerCookie == "" {
			headerCookie = strings.TrimSpace(value)
		}
	}

	cookie := headerCookie
	if m := cookieRegex.FindStringSubmatch(curlCmd); len(m) > 1 {
		cookie = firstNonEmpty(m[1], m[2])
	}

	if headerCount == 0 && cookie == "" {
		return nil, fmt.Errorf("%w: no headers found in curl command", ErrInvalidInput)
	}

	return &CurlRequest{Cookie: cookie}, nil
}

// SessionCookie returns the cookie line after checking that it parses as one or more cookies.
func (c *CurlRequest) SessionCookie() (string, error) {
	if c.Cookie == "" {
		return "", ErrMissingCookie
	}
	if _, err := http.ParseCookie(c.Cookie); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return c.Cookie, nil
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
