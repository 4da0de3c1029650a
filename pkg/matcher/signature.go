// Package matcher normalizes raw simulated requests into signatures and
// supplies the ordered fallback strategies used to resolve them against
// registered rules.
package matcher

import (
	"regexp"
	"strings"

	"github.com/ghstub/ghstub/pkg/models"
)

var operationNameRe = regexp.MustCompile(`(?:query|mutation|subscription)\s+([A-Za-z_][A-Za-z0-9_]*)`)

// GraphQLOperation extracts the operation name from a query document.
// Unnamed operations yield "" and the caller falls back to the full text.
func GraphQLOperation(query string) string {
	m := operationNameRe.FindStringSubmatch(query)
	if m == nil {
		return ""
	}
	return m[1]
}

// Signature normalizes a raw request into the string matched against rule
// patterns: the operation name for graphql (full query text if unnamed),
// "METHOD:endpoint" for rest, and "command subcommand" for cli.
func Signature(category models.Category, raw string) string {
	raw = strings.TrimSpace(raw)
	switch category {
	case models.GraphQL:
		if op := GraphQLOperation(raw); op != "" {
			return op
		}
		return raw
	case models.REST:
		method, endpoint := splitREST(raw)
		if method == "" {
			return endpoint
		}
		return method + ":" + endpoint
	case models.CLI:
		fields := strings.Fields(raw)
		if len(fields) >= 2 {
			return fields[0] + " " + fields[1]
		}
		return raw
	}
	return raw
}

// splitREST accepts "GET repos/{owner}/{repo}", "GET:repos/..." or a bare
// endpoint and returns the method (upper-cased, may be empty) and endpoint.
func splitREST(raw string) (string, string) {
	sep := strings.IndexAny(raw, ": ")
	if sep < 0 {
		return "", raw
	}
	method := strings.ToUpper(raw[:sep])
	endpoint := strings.TrimSpace(raw[sep+1:])
	switch method {
	case "GET", "POST", "PUT", "PATCH", "DELETE", "HEAD":
		return method, endpoint
	}
	return "", raw
}

// Endpoint returns the endpoint part of a rest request, without the method.
func Endpoint(raw string) string {
	_, endpoint := splitREST(strings.TrimSpace(raw))
	return endpoint
}

// Command returns the leading token of a cli request.
func Command(raw string) string {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
