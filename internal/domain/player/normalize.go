package player

import (
	"strings"

	"github.com/courtdata/hoopsync/internal/domain/normalize"
)

// positionTable maps folded provider strings to canonical positions. Slash
// and hyphen separated combinations are split before lookup, so "G/F" and
// "PG-SG" resolve per segment.
var positionTable = map[string][]Position{
	"pg":             {PointGuard},
	"pointguard":     {PointGuard},
	"point":          {PointGuard},
	"playmaker":      {PointGuard},
	"base":           {PointGuard}, // es
	"meneur":         {PointGuard}, // fr
	"1":              {PointGuard},
	"sg":             {ShootingGuard},
	"shootingguard":  {ShootingGuard},
	"twoguard":       {ShootingGuard},
	"escolta":        {ShootingGuard}, // es
	"arriere":        {ShootingGuard}, // fr
	"2":              {ShootingGuard},
	"sf":             {SmallForward},
	"smallforward":   {SmallForward},
	"alero":          {SmallForward}, // es
	"ailier":         {SmallForward}, // fr
	"3":              {SmallForward},
	"pf":             {PowerForward},
	"powerforward":   {PowerForward},
	"alapivot":       {PowerForward}, // es
	"ailierfort":     {PowerForward}, // fr
	"4":              {PowerForward},
	"c":              {Center},
	"center":         {Center},
	"centre":         {Center},
	"pivot":          {Center},
	"5":              {Center},
	"g":              {Guard},
	"guard":          {Guard},
	"f":              {Forward},
	"forward":        {Forward},
	"forwardcenter":  {Forward, Center},
	"guardforward":   {Guard, Forward},
	"swingman":       {Guard, Forward},
	"comboguard":     {Guard},
	"wing":           {Forward},
}

// NormalizePosition maps a raw provider position to one or more canonical
// positions. Unknown values fail loudly; nothing raw is persisted.
func NormalizePosition(raw, source string) ([]Position, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}

	if direct, ok := positionTable[normalize.Key(trimmed)]; ok {
		return dedupePositions(direct), nil
	}

	segments := strings.FieldsFunc(trimmed, func(r rune) bool {
		return r == '/' || r == '-' || r == ','
	})
	if len(segments) > 1 {
		out := make([]Position, 0, len(segments))
		for _, segment := range segments {
			mapped, ok := positionTable[normalize.Key(segment)]
			if !ok {
				return nil, normalize.UnknownValue(source, "position", raw)
			}
			out = append(out, mapped...)
		}
		return dedupePositions(out), nil
	}

	return nil, normalize.UnknownValue(source, "position", raw)
}

func dedupePositions(in []Position) []Position {
	seen := make(map[Position]struct{}, len(in))
	out := make([]Position, 0, len(in))
	for _, pos := range in {
		if _, ok := seen[pos]; ok {
			continue
		}
		seen[pos] = struct{}{}
		out = append(out, pos)
	}
	return out
}
