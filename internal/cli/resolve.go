package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/chantier/internal/calendar"
	"github.com/alexanderramin/chantier/internal/catalog"
	"github.com/alexanderramin/chantier/internal/domain"
)

// resolvePhaseID accepts a catalog phase ID or its 1-based position as shown
// by "schedule show".
func resolvePhaseID(cat *catalog.Catalog, input string) (string, error) {
	input = strings.TrimSpace(input)
	if pos, err := strconv.Atoi(input); err == nil {
		if pos < 1 || pos > cat.Len() {
			return "", fmt.Errorf("phase #%d out of range (1-%d)", pos, cat.Len())
		}
		return cat.At(pos - 1).ID, nil
	}
	if _, ok := cat.Get(input); !ok {
		return "", fmt.Errorf("unknown phase %q (see 'chantier catalog list')", input)
	}
	return input, nil
}

// parseOptionalDate parses a YYYY-MM-DD flag value; empty yields nil.
func parseOptionalDate(flag, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	d, err := calendar.Parse(value)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s %q: use YYYY-MM-DD", flag, value)
	}
	return domain.TimePtr(d), nil
}

// resolveProjectID accepts a short ID or project name (either case), a full
// UUID or a unique UUID prefix.
func resolveProjectID(ctx context.Context, app *App, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("project ID is required")
	}
	projects, err := app.Projects.List(ctx)
	if err != nil {
		return "", err
	}

	ids := make([]string, 0, len(projects))
	var byName []string
	for _, p := range projects {
		if strings.EqualFold(p.ShortID, input) {
			return p.ID, nil
		}
		if strings.EqualFold(p.Name, input) {
			byName = append(byName, p.ID)
		}
		ids = append(ids, p.ID)
	}
	if len(byName) == 1 {
		return byName[0], nil
	}
	if len(byName) > 1 {
		return "", fmt.Errorf("project name %q is shared by %d projects; use the short ID", input, len(byName))
	}
	return uniquePrefix("project", ids, input)
}

// resolveAlertID matches an alert by full ID or unique prefix.
func resolveAlertID(alerts []domain.Alert, input string) (string, error) {
	ids := make([]string, len(alerts))
	for i, a := range alerts {
		ids[i] = a.ID
	}
	return uniquePrefix("alert", ids, input)
}

func uniquePrefix(kind string, ids []string, input string) (string, error) {
	var matches []string
	for _, id := range ids {
		if id == input {
			return id, nil
		}
		if strings.HasPrefix(id, input) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%s not found: %q", kind, input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%s ID prefix %q is ambiguous (%d matches)", kind, input, len(matches))
	}
}
