package engine

import (
	"fmt"
	"strings"
)

// Сообщения классов ошибок с меткой уровня.
//
// badResponse — тело не разобралось в конверт ответа;
// unknownScheme — конверт разобрался, но value не той формы;
// unknownState — сайт вернул неожиданный код результата.
func badResponse(tier string) string {
	return fmt.Sprintf("Bad response (%s)", tier)
}

func unknownScheme(tier string) string {
	return fmt.Sprintf("Unknown scheme (%s)", tier)
}

func unknownState(tier string) string {
	return fmt.Sprintf("Unknown (%s)", tier)
}

// retrieveBetween вырезает подстроку между start и end.
// Пустой end — до конца текста.
func retrieveBetween(text, start, end string) (string, bool) {
	i := strings.Index(text, start)
	if i < 0 {
		return "", false
	}
	i += len(start)

	if end == "" {
		return text[i:], true
	}

	j := strings.Index(text[i:], end)
	if j < 0 {
		return "", false
	}
	return text[i : i+j], true
}
