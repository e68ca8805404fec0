package validate

import "testing"

func TestEmail(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"user@example.com", true},
		{"u.s-e_r1@example.ru", true},
		{"ab@example.com", false},      // локальная часть слишком короткая
		{"user@ex.com", false},         // домен слишком короткий
		{"user@example.c", false},      // зона слишком короткая
		{"user@exam ple.com", false},   // пробел
		{"user@sub.example.com", false}, // поддомен
		{"userexample.com", false},     // нет @
		{"", false},
	}

	for _, c := range cases {
		if got := Email(c.in); got != c.want {
			t.Errorf("Email(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestPhone(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"+7(900)123-45-67", true},
		{"+7(000)000-00-00", true},
		{"+8(900)123-45-67", false},
		{"8(900)1234-45-67", false},
		{"+7(900)123-45-6", false},
		{"+7(900)123-45-678", false},
		{"+7(9a0)123-45-67", false},
		{"+7 900 123-45-67", false},
		{"", false},
	}

	for _, c := range cases {
		if got := Phone(c.in); got != c.want {
			t.Errorf("Phone(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
