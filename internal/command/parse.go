// Package command parses and executes analysis requests.
package command

import (
	"fmt"
	"strings"
	"time"

	"github.com/azielinski/nbpstat/internal/period"
)

// Request is a parsed interactive command.
type Request interface {
	request()
}

// AnalyzeRequest asks for single-currency statistics.
type AnalyzeRequest struct {
	Currency string
	Period   string
	Start    string
}

// DistributionRequest asks for a currency pair's change distribution.
type DistributionRequest struct {
	CurrencyA string
	CurrencyB string
	Period    string
	Start     string
}

// RateRequest asks for the latest published rate.
type RateRequest struct {
	Currency string
}

// HistoryRequest asks for recent request summaries.
type HistoryRequest struct {
	Limit int
}

func (AnalyzeRequest) request()      {}
func (DistributionRequest) request() {}
func (RateRequest) request()         {}
func (HistoryRequest) request()      {}

// Parse turns one input line into a typed request. help/exit are handled
// by the REPL before parsing.
func Parse(line string) (Request, error) {
	tokens, err := splitTokens(line)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("empty command")
	}

	name := strings.ToLower(tokens[0])
	positionals, flags, err := splitFlags(tokens[1:])
	if err != nil {
		return nil, err
	}

	switch name {
	case "analyze":
		if len(positionals) != 1 {
			return nil, fmt.Errorf("usage: analyze <currency> --period <period> [--start YYYY-MM-DD]")
		}
		token, err := requirePeriod(flags)
		if err != nil {
			return nil, err
		}
		if err := rejectUnknownFlags(flags, "period", "start"); err != nil {
			return nil, err
		}
		return AnalyzeRequest{Currency: positionals[0], Period: token, Start: flags["start"]}, nil
	case "change-distribution":
		if len(positionals) != 2 {
			return nil, fmt.Errorf("usage: change-distribution <currency> <currency> --period <period> [--start YYYY-MM-DD]")
		}
		token, err := requirePeriod(flags)
		if err != nil {
			return nil, err
		}
		if err := rejectUnknownFlags(flags, "period", "start"); err != nil {
			return nil, err
		}
		return DistributionRequest{CurrencyA: positionals[0], CurrencyB: positionals[1], Period: token, Start: flags["start"]}, nil
	case "rate":
		if len(positionals) != 1 {
			return nil, fmt.Errorf("usage: rate <currency>")
		}
		if err := rejectUnknownFlags(flags); err != nil {
			return nil, err
		}
		return RateRequest{Currency: positionals[0]}, nil
	case "history":
		if len(positionals) != 0 {
			return nil, fmt.Errorf("usage: history [--last N]")
		}
		if err := rejectUnknownFlags(flags, "last"); err != nil {
			return nil, err
		}
		limit := 0
		if raw, ok := flags["last"]; ok {
			if _, err := fmt.Sscanf(raw, "%d", &limit); err != nil || limit <= 0 {
				return nil, fmt.Errorf("--last expects a positive number, got %q", raw)
			}
		}
		return HistoryRequest{Limit: limit}, nil
	default:
		return nil, fmt.Errorf("unknown command %q (type 'help' for available commands)", tokens[0])
	}
}

// ResolveAnchor validates an optional anchor date string. An empty value
// defaults to today. The date must be within the archive's supported
// range and not in the future; resolution itself clamps, this is the
// presentation-layer guard.
func ResolveAnchor(value string, minDate, now time.Time) (time.Time, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if strings.TrimSpace(value) == "" {
		return today, nil
	}
	anchor, err := time.ParseInLocation("2006-01-02", value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format %q, use YYYY-MM-DD", value)
	}
	if anchor.Before(minDate) {
		return time.Time{}, fmt.Errorf("date %s is outside the supported archival range (minimum: %s)",
			value, minDate.Format("2006-01-02"))
	}
	if anchor.After(today) {
		return time.Time{}, fmt.Errorf("date %s cannot be in the future", value)
	}
	return anchor, nil
}

func requirePeriod(flags map[string]string) (string, error) {
	token, ok := flags["period"]
	if !ok {
		return "", fmt.Errorf("--period is required (one of: %s)", strings.Join(period.Tokens(), ", "))
	}
	if !period.Valid(token) {
		return "", fmt.Errorf("invalid period %q (one of: %s)", token, strings.Join(period.Tokens(), ", "))
	}
	return token, nil
}

func rejectUnknownFlags(flags map[string]string, allowed ...string) error {
	for name := range flags {
		known := false
		for _, a := range allowed {
			if name == a {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("unknown flag --%s", name)
		}
	}
	return nil
}

// splitFlags separates positional arguments from --name value and
// --name=value flags.
func splitFlags(tokens []string) ([]string, map[string]string, error) {
	var positionals []string
	flags := map[string]string{}
	for i := 0; i < len(tokens); i++ {
		token := tokens[i]
		if !strings.HasPrefix(token, "--") {
			positionals = append(positionals, token)
			continue
		}
		name := strings.TrimPrefix(token, "--")
		if name == "" {
			return nil, nil, fmt.Errorf("malformed flag %q", token)
		}
		if eq := strings.IndexByte(name, '='); eq >= 0 {
			flags[name[:eq]] = name[eq+1:]
			continue
		}
		if i+1 >= len(tokens) || strings.HasPrefix(tokens[i+1], "--") {
			return nil, nil, fmt.Errorf("flag --%s expects a value", name)
		}
		flags[name] = tokens[i+1]
		i++
	}
	return positionals, flags, nil
}

// splitTokens splits an input line on whitespace, honoring single and
// double quotes.
func splitTokens(line string) ([]string, error) {
	var tokens []string
	var current strings.Builder
	inToken := false
	var quote rune

	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
				continue
			}
			current.WriteRune(r)
		case r == '\'' || r == '"':
			quote = r
			inToken = true
		case r == ' ' || r == '\t':
			if inToken {
				tokens = append(tokens, current.String())
				current.Reset()
				inToken = false
			}
		default:
			current.WriteRune(r)
			inToken = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated quote")
	}
	if inToken {
		tokens = append(tokens, current.String())
	}
	return tokens, nil
}
