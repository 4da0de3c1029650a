package cli

import (
	"context"
	"fmt"
	"os/exec"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/ghstub/ghstub/pkg/models"
)

// execProbe is the live probe adapter: it shells out to the configured
// command (gh api by default) to fetch a fresh response for one fixture
// descriptor. Timeouts and retries are the caller's business, expressed
// through ctx.
type execProbe struct {
	logger  *zap.Logger
	command string
}

func NewExecProbe(logger *zap.Logger, command string) *execProbe {
	if command == "" {
		command = "gh api"
	}
	return &execProbe{
		logger:  logger,
		command: command,
	}
}

func (p *execProbe) Fetch(ctx context.Context, req models.ProbeRequest) ([]byte, error) {
	parts := strings.Fields(p.command)
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty probe command")
	}
	args := parts[1:]

	switch req.Category {
	case models.GraphQL:
		args = append(args, "graphql", "-f", "query="+req.Query)
		for _, k := range sortedKeys(req.Variables) {
			args = append(args, "-f", k+"="+req.Variables[k])
		}
	case models.REST:
		args = append(args, "-X", req.Method, req.Endpoint)
	default:
		return nil, fmt.Errorf("cannot probe %s fixtures", req.Category)
	}

	p.logger.Debug("probing live API", zap.Strings("args", args))
	out, err := exec.CommandContext(ctx, parts[0], args...).Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("%s: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, err
	}
	return out, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
