// Package parse turns free-form chat text into validated values. Every
// parser returns either a value or a *apperrors.ValidationError naming the
// offending field.
package parse

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/mauv0809/boardgame-tracker/internal/apperrors"
	"github.com/mauv0809/boardgame-tracker/internal/scoring"
)

// DateLayout is the only accepted explicit date format.
const DateLayout = "2006-01-02"

// MinPlayers is the smallest player list a game can have.
const MinPlayers = 2

// Date is a parsed date answer. Today is resolved against the clock at
// commit time rather than at parse time.
type Date struct {
	Today bool
	Day   time.Time
}

// Resolve returns the calendar day this answer refers to.
func (d Date) Resolve(now time.Time) time.Time {
	if d.Today {
		y, m, day := now.Date()
		return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
	}
	return d.Day.UTC()
}

// GameName accepts any non-blank name.
func GameName(text string) (string, error) {
	name := strings.TrimSpace(text)
	if name == "" {
		return "", apperrors.Invalid("game name", "the game name cannot be empty")
	}
	return name, nil
}

// GameType accepts solo, team or pair in any case.
func GameType(text string) (scoring.GameType, error) {
	t := scoring.GameType(strings.ToLower(strings.TrimSpace(text)))
	if !t.Valid() {
		return "", apperrors.Invalid("game type", "please type 'solo', 'team', or 'pair'")
	}
	return t, nil
}

// Players splits a comma-separated list of names. Names are trimmed, must
// not be empty and must be unique ignoring case.
func Players(text string) ([]string, error) {
	parts := strings.Split(text, ",")
	players := make([]string, 0, len(parts))
	seen := make(map[string]bool, len(parts))
	for i, p := range parts {
		name := strings.TrimSpace(p)
		if name == "" {
			return nil, apperrors.Invalid("players", "name #%d is empty", i+1)
		}
		key := strings.ToLower(name)
		if seen[key] {
			return nil, apperrors.Invalid("players", "%s is listed more than once", name)
		}
		seen[key] = true
		players = append(players, name)
	}
	if len(players) < MinPlayers {
		return nil, apperrors.Invalid("players", "at least %d players are needed, got %d", MinPlayers, len(players))
	}
	return players, nil
}

// Rankings parses one integer rank per player.
func Rankings(text string, players int) ([]int, error) {
	tokens := tokens(text)
	if err := checkCount("rankings", len(tokens), players); err != nil {
		return nil, err
	}
	ranks := make([]int, len(tokens))
	for i, tok := range tokens {
		r, err := strconv.Atoi(tok)
		if err != nil {
			return nil, apperrors.Invalid("rankings", "%q is not a whole number", tok)
		}
		ranks[i] = r
	}
	return ranks, nil
}

// Points parses one decimal score per player.
func Points(text string, players int) ([]float64, error) {
	tokens := tokens(text)
	if err := checkCount("points", len(tokens), players); err != nil {
		return nil, err
	}
	points := make([]float64, len(tokens))
	for i, tok := range tokens {
		p, err := Number(tok)
		if err != nil {
			return nil, apperrors.Invalid("points", "%q is not a number", tok)
		}
		points[i] = p
	}
	return points, nil
}

// Number parses a finite decimal such as 5, -3 or 3.5.
func Number(text string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, apperrors.Invalid("points", "must be a number, e.g. 5 or 3.5")
	}
	return v, nil
}

// DateAnswer accepts "today" (or "now") and strict YYYY-MM-DD dates.
func DateAnswer(text string) (Date, error) {
	s := strings.TrimSpace(text)
	switch strings.ToLower(s) {
	case "today", "now":
		return Date{Today: true}, nil
	}
	if len(s) != len(DateLayout) {
		return Date{}, apperrors.Invalid("date", "%q is not in YYYY-MM-DD format", s)
	}
	day, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, apperrors.Invalid("date", "%q is not a valid YYYY-MM-DD date", s)
	}
	return Date{Day: day}, nil
}

// tokens splits on commas and whitespace, dropping empties.
func tokens(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
}

func checkCount(field string, got, want int) error {
	if got != want {
		return apperrors.Invalid(field, "You den lah! You give %d but got %d, what you want me to do?", got, want)
	}
	return nil
}
