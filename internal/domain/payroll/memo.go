package payroll

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// GenerateMemoNumber builds a human readable memo reference of the form
// MEM-<TYPE>-<session>[-<target>]-<RAND>. The type token is abbreviated
// (FORM, COORD, REG) and the session and target ids are shortened to their
// first UUID group so the reference stays printable on a document header;
// global uniqueness is enforced by the database on the full memo number
// thanks to the random suffix.
func GenerateMemoNumber(sheetType SheetType, sessionID string, targetID *string) string {
	var b strings.Builder
	b.WriteString("MEM-")
	b.WriteString(memoTypeToken(sheetType))
	b.WriteString("-")
	b.WriteString(shortID(sessionID))
	if targetID != nil && *targetID != "" {
		b.WriteString("-")
		b.WriteString(shortID(*targetID))
	}
	b.WriteString("-")
	b.WriteString(randomSuffix(4))
	return b.String()
}

func memoTypeToken(sheetType SheetType) string {
	switch sheetType {
	case SheetTypeTrainer:
		return "FORM"
	case SheetTypeCoordination:
		return "COORD"
	case SheetTypeSettlement:
		return "REG"
	default:
		return string(sheetType)
	}
}

func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return strings.ToUpper(id[:i])
	}
	if len(id) > 8 {
		return strings.ToUpper(id[:8])
	}
	return strings.ToUpper(id)
}

const memoAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func randomSuffix(n int) string {
	out := make([]byte, n)
	max := big.NewInt(int64(len(memoAlphabet)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the OS entropy source is
			// broken, fall back to a fixed character rather than abort.
			out[i] = 'X'
			continue
		}
		out[i] = memoAlphabet[idx.Int64()]
	}
	return string(out)
}
