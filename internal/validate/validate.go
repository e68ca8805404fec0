// Package validate — проверка форматов пользовательского ввода.
package validate

// Email проверяет адрес вида local@domain.zone.
// Локальная часть длиннее 2 символов, домен длиннее 2, зона длиннее 1.
// Поддомены не поддерживаются.
func Email(s string) bool {
	local, domain, root := 0, 0, 0
	step := 0

	for _, c := range s {
		common := isAlpha(c) || isDigit(c)

		switch {
		case step == 0 && c == '@':
			step = 1
		case step == 0 && (common || c == '-' || c == '_' || c == '.'):
			local++
		case step == 1 && c == '.':
			step = 2
		case step == 1 && common:
			domain++
		case step == 2 && common:
			root++
		default:
			return false
		}
	}

	return local > 2 && domain > 2 && root > 1
}

// Phone проверяет номер в формате +7(XXX)XXX-XX-XX.
func Phone(s string) bool {
	if len(s) != 16 {
		return false
	}

	for i, c := range s {
		switch i {
		case 0:
			if c != '+' {
				return false
			}
		case 1:
			if c != '7' {
				return false
			}
		case 2:
			if c != '(' {
				return false
			}
		case 6:
			if c != ')' {
				return false
			}
		case 10, 13:
			if c != '-' {
				return false
			}
		default:
			if !isDigit(c) {
				return false
			}
		}
	}
	return true
}

func isAlpha(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}
