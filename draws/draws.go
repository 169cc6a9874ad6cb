// Package draws holds the pure number rules of a three-digit draw:
// deriving singles and jodis from a declared panna, classifying pannas,
// validating bet numbers and deciding winners. No I/O, no state.
package draws

import "strconv"

type BetType string

const (
	BetTypeSingleDigit BetType = "single_digit"
	BetTypeSinglePanna BetType = "single_panna"
	BetTypeDoublePanna BetType = "double_panna"
	BetTypeTriplePanna BetType = "triple_panna"
	BetTypeJodi        BetType = "jodi"
)

func (b BetType) Valid() bool {
	switch b {
	case BetTypeSingleDigit, BetTypeSinglePanna, BetTypeDoublePanna, BetTypeTriplePanna, BetTypeJodi:
		return true
	}
	return false
}

type Session string

const (
	SessionOpen  Session = "OPEN"
	SessionClose Session = "CLOSE"
)

func (s Session) Valid() bool {
	return s == SessionOpen || s == SessionClose
}

// PannaClass is the structural class of a 3-digit panna.
type PannaClass string

const (
	PannaSingle PannaClass = "single"
	PannaDouble PannaClass = "double"
	PannaTriple PannaClass = "triple"
)

// IsPanna reports whether s is exactly three digits.
func IsPanna(s string) bool {
	return isDigits(s, 3)
}

// Single derives the single for a panna: digit sum mod 10.
// Non-panna input yields the sum of whatever digits are present.
func Single(panna string) int {
	sum := 0
	for _, r := range panna {
		if r >= '0' && r <= '9' {
			sum += int(r - '0')
		}
	}
	return sum % 10
}

// Jodi combines a day's open and close singles into the 2-digit jodi.
func Jodi(openSingle, closeSingle int) string {
	return strconv.Itoa(openSingle%10) + strconv.Itoa(closeSingle%10)
}

// Classify buckets a panna by its distinct digits: triple when all three
// match, double when exactly two do, single otherwise.
func Classify(panna string) PannaClass {
	if len(panna) != 3 {
		return PannaSingle
	}
	switch {
	case panna[0] == panna[1] && panna[1] == panna[2]:
		return PannaTriple
	case panna[0] == panna[1] || panna[1] == panna[2] || panna[0] == panna[2]:
		return PannaDouble
	default:
		return PannaSingle
	}
}

// ValidateNumber reports whether number is well-formed for the bet type.
// Panna bets must also match the classification of their own number.
func ValidateNumber(betType BetType, number string) bool {
	switch betType {
	case BetTypeSingleDigit:
		return isDigits(number, 1)
	case BetTypeSinglePanna:
		return IsPanna(number) && Classify(number) == PannaSingle
	case BetTypeDoublePanna:
		return IsPanna(number) && Classify(number) == PannaDouble
	case BetTypeTriplePanna:
		return IsPanna(number) && Classify(number) == PannaTriple
	case BetTypeJodi:
		return isDigits(number, 2)
	}
	return false
}

// Outcome is the declared state a bet is judged against. Panna is the
// 3-digit result of the bet's own session, empty while undeclared. Jodi is
// the day's combined jodi, empty until both sessions are declared.
type Outcome struct {
	Panna string
	Jodi  string
}

// IsWinner decides a bet against an outcome. A jodi bet can never win from
// an outcome without a jodi; callers treat that case as "still pending",
// not as a loss.
func IsWinner(betType BetType, number string, o Outcome) bool {
	switch betType {
	case BetTypeSingleDigit:
		return o.Panna != "" && number == strconv.Itoa(Single(o.Panna))
	case BetTypeSinglePanna, BetTypeDoublePanna, BetTypeTriplePanna:
		return o.Panna != "" && number == o.Panna
	case BetTypeJodi:
		return o.Jodi != "" && number == o.Jodi
	}
	return false
}

func isDigits(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
