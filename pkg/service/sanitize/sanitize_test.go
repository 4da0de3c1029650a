package sanitize

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/ghstub/ghstub/pkg/models"
	"github.com/ghstub/ghstub/pkg/platform/yaml/fixturedb"
)

func newTestService(t *testing.T) (Service, string) {
	t.Helper()
	root := t.TempDir()
	return New(zap.NewNop(), fixturedb.New(zap.NewNop(), root)), root
}

func writeFixture(t *testing.T, root, name, content string) {
	t.Helper()
	path := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestSanitizeBodyAppliesPathRules(t *testing.T) {
	svc, _ := newTestService(t)
	out, err := svc.SanitizeBody("issue/get",
		[]byte(`{"user":{"login":"realuser"},"body":"secret text"}`),
		[]models.SanitizeRule{
			{Path: "user.login", Value: "octocat"},
			{Path: "body", Value: "redacted"},
		})
	require.NoError(t, err)
	assert.Equal(t, "octocat", gjson.GetBytes(out, "user.login").String())
	assert.Equal(t, "redacted", gjson.GetBytes(out, "body").String())
}

func TestSanitizeBodyMasksCredentialFields(t *testing.T) {
	svc, _ := newTestService(t)
	out, err := svc.SanitizeBody("issue/get",
		[]byte(`{"node_id":"MDU6SXNzdWUx","gravatar_id":"abc123","email":"real@corp.example","token":"ghp_secret"}`),
		nil)
	require.NoError(t, err)
	assert.Equal(t, "NODE_ID", gjson.GetBytes(out, "node_id").String())
	assert.Equal(t, "", gjson.GetBytes(out, "gravatar_id").String())
	assert.Equal(t, "octocat@example.com", gjson.GetBytes(out, "email").String())
	assert.Equal(t, "REDACTED", gjson.GetBytes(out, "token").String())
}

func TestSanitizeBodyNormalizesTimestampsPreservingOrder(t *testing.T) {
	svc, _ := newTestService(t)
	out, err := svc.SanitizeBody("issue/get",
		[]byte(`{"created_at":"2024-03-10T08:00:00Z","updated_at":"2024-06-01T12:30:00Z","closed_at":"2024-03-10T08:00:00Z"}`),
		nil)
	require.NoError(t, err)

	created := gjson.GetBytes(out, "created_at").String()
	updated := gjson.GetBytes(out, "updated_at").String()
	closed := gjson.GetBytes(out, "closed_at").String()

	assert.Equal(t, "2020-01-01T00:00:00Z", created)
	assert.Equal(t, "2020-01-01T00:01:00Z", updated)
	assert.Equal(t, created, closed, "identical inputs map to the same synthetic time")
}

func TestSanitizeBodyBadRulePath(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.SanitizeBody("issue/get", []byte(`{"a":1}`),
		[]models.SanitizeRule{{Path: "", Value: "x"}})
	var sanErr *models.SanitizationError
	require.ErrorAs(t, err, &sanErr)
	assert.Equal(t, "issue/get", sanErr.Fixture)
}

func TestSanitizeDomainRewritesFixturesInPlace(t *testing.T) {
	svc, root := newTestService(t)
	writeFixture(t, root, "issue/fixtures.yaml", `
fixtures:
  get:
    type: rest
    endpoint: repos/{owner}/{repo}/issues/1
    sanitize:
      - path: user.login
        value: octocat
`)
	writeFixture(t, root, "issue/get.json", `{"user":{"login":"realuser"},"node_id":"MDQ6VXNlcjE"}`)

	require.NoError(t, svc.SanitizeDomain(context.Background(), "issue"))

	body, err := os.ReadFile(filepath.Join(root, "issue/get.json"))
	require.NoError(t, err)
	assert.Equal(t, "octocat", gjson.GetBytes(body, "user.login").String())
	assert.Equal(t, "NODE_ID", gjson.GetBytes(body, "node_id").String())
	assert.NoFileExists(t, filepath.Join(root, "issue/get.json.bak"), "backup is discarded after a clean pass")
}

func TestSanitizeDomainContinuesPastFailures(t *testing.T) {
	svc, root := newTestService(t)
	writeFixture(t, root, "issue/fixtures.yaml", `
fixtures:
  bad:
    type: rest
    endpoint: repos/{owner}/{repo}/issues/1
    sanitize:
      - path: ""
        value: x
  good:
    type: rest
    endpoint: repos/{owner}/{repo}/issues/2
`)
	writeFixture(t, root, "issue/bad.json", `{"a":1}`)
	writeFixture(t, root, "issue/good.json", `{"node_id":"MDQ6VXNlcjE"}`)

	err := svc.SanitizeDomain(context.Background(), "issue")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 fixtures")

	// the good fixture was still sanitized
	body, readErr := os.ReadFile(filepath.Join(root, "issue/good.json"))
	require.NoError(t, readErr)
	assert.Equal(t, "NODE_ID", gjson.GetBytes(body, "node_id").String())

	// the bad fixture is untouched
	body, readErr = os.ReadFile(filepath.Join(root, "issue/bad.json"))
	require.NoError(t, readErr)
	assert.Equal(t, `{"a":1}`, string(body))
}

func TestSanitizeDomainMissingFixtureFile(t *testing.T) {
	svc, root := newTestService(t)
	writeFixture(t, root, "issue/fixtures.yaml", `
fixtures:
  ghost:
    type: rest
    endpoint: repos/{owner}/{repo}/issues/1
`)
	err := svc.SanitizeDomain(context.Background(), "issue")
	require.Error(t, err)
}

func TestSanitizeAllCoversEveryDomain(t *testing.T) {
	svc, root := newTestService(t)
	for _, domain := range []string{"issue", "release"} {
		writeFixture(t, root, domain+"/fixtures.yaml", `
fixtures:
  get:
    type: rest
    endpoint: repos/{owner}/{repo}/x
`)
		writeFixture(t, root, domain+"/get.json", `{"email":"real@corp.example"}`)
	}

	require.NoError(t, svc.SanitizeAll(context.Background()))
	for _, domain := range []string{"issue", "release"} {
		body, err := os.ReadFile(filepath.Join(root, domain, "get.json"))
		require.NoError(t, err)
		assert.Equal(t, "octocat@example.com", gjson.GetBytes(body, "email").String())
	}
}
