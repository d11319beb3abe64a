// Package textutil repairs text pulled from mail servers. Subjects, sender
// names, and bodies arrive in whatever bytes the origin MUA produced; every
// string stored by the dashboard passes through EnsureUTF8 first.
package textutil

import (
	"strings"
	"unicode/utf8"

	"github.com/gogs/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
)

// fallbackEncodings is ordered by likelihood in mail: Windows-1252 smart
// quotes and dashes are the most common corruption, CJK charsets follow.
var fallbackEncodings = []encoding.Encoding{
	charmap.Windows1252,
	charmap.ISO8859_1,
	charmap.ISO8859_15,
	japanese.ShiftJIS,
	japanese.EUCJP,
	korean.EUCKR,
	simplifiedchinese.GBK,
	traditionalchinese.Big5,
}

// EnsureUTF8 returns s unchanged when it is already valid UTF-8. Otherwise it
// attempts charset detection, then the fallback encodings in order, and as a
// last resort replaces invalid bytes with the replacement rune.
func EnsureUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	data := []byte(s)

	// Short inputs give the detector too little signal for a confident
	// verdict, so accept weaker guesses there.
	minConfidence := 50
	if len(data) <= 50 {
		minConfidence = 30
	}
	if best, err := chardet.NewTextDetector().DetectBest(data); err == nil && best.Confidence >= minConfidence {
		if enc := encodingByName(best.Charset); enc != nil {
			if out, ok := decodeWith(enc, data); ok {
				return out
			}
		}
	}

	for _, enc := range fallbackEncodings {
		if out, ok := decodeWith(enc, data); ok {
			return out
		}
	}
	return SanitizeUTF8(s)
}

func decodeWith(enc encoding.Encoding, data []byte) (string, bool) {
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil || !utf8.Valid(decoded) {
		return "", false
	}
	return string(decoded), true
}

// SanitizeUTF8 replaces each invalid byte with the replacement rune.
func SanitizeUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return string([]rune(s))
}

// encodingByName maps the IANA charset names the detector reports to
// decoders. Unknown names return nil and the caller falls through to the
// fallback list.
func encodingByName(name string) encoding.Encoding {
	switch strings.ToLower(name) {
	// Mail labeled ISO-8859-1 is almost always Windows-1252 in practice;
	// decoding the 0x80-0x9F range as C1 controls helps nobody.
	case "windows-1252", "cp1252", "iso-8859-1", "latin1", "latin-1":
		return charmap.Windows1252
	case "iso-8859-15", "latin9":
		return charmap.ISO8859_15
	case "iso-8859-2", "latin2":
		return charmap.ISO8859_2
	case "shift_jis", "shift-jis", "sjis":
		return japanese.ShiftJIS
	case "euc-jp", "eucjp":
		return japanese.EUCJP
	case "iso-2022-jp":
		return japanese.ISO2022JP
	case "euc-kr", "euckr":
		return korean.EUCKR
	case "gb2312", "gbk":
		return simplifiedchinese.GBK
	case "gb18030":
		return simplifiedchinese.GB18030
	case "big5", "big-5":
		return traditionalchinese.Big5
	case "koi8-r":
		return charmap.KOI8R
	case "koi8-u":
		return charmap.KOI8U
	}
	return nil
}

// FirstLine returns the first line of s with leading newlines trimmed.
// Useful for collapsing multi-line backend errors into status-bar text.
func FirstLine(s string) string {
	s = strings.TrimLeft(s, "\r\n")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		return strings.TrimRight(s[:idx], "\r")
	}
	return s
}
