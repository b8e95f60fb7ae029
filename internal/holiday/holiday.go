// Package holiday computes the holiday calendar observed by the studios
// (national holidays plus Rio de Janeiro state dates).
package holiday

import (
	"fmt"
	"time"
)

// Holiday is a single non-working date surfaced to calendar consumers.
type Holiday struct {
	Date string `json:"date"`
	Name string `json:"name"`
	Kind string `json:"kind"`
}

const (
	kindNational = "nacional"
	kindState    = "estadual - RJ"
	kindMovable  = "móvel"
)

// ForYear returns the holidays for the given year, fixed dates first and
// then the Easter-derived movable feasts.
func ForYear(year int) []Holiday {
	easter := easterSunday(year)

	fixed := []Holiday{
		{Date: isoDate(year, time.January, 1), Name: "Ano Novo", Kind: kindNational},
		{Date: isoDate(year, time.April, 21), Name: "Tiradentes", Kind: kindNational},
		{Date: isoDate(year, time.April, 23), Name: "Dia de São Jorge", Kind: kindState},
		{Date: isoDate(year, time.May, 1), Name: "Dia do Trabalhador", Kind: kindNational},
		{Date: isoDate(year, time.September, 7), Name: "Independência do Brasil", Kind: kindNational},
		{Date: isoDate(year, time.October, 12), Name: "Nossa Senhora Aparecida", Kind: kindNational},
		{Date: isoDate(year, time.November, 2), Name: "Finados", Kind: kindNational},
		{Date: isoDate(year, time.November, 15), Name: "Proclamação da República", Kind: kindNational},
		{Date: isoDate(year, time.November, 20), Name: "Consciência Negra", Kind: kindState},
		{Date: isoDate(year, time.December, 25), Name: "Natal", Kind: kindNational},
	}

	movable := []Holiday{
		{Date: easter.AddDate(0, 0, -47).Format("2006-01-02"), Name: "Carnaval", Kind: kindMovable},
		{Date: easter.AddDate(0, 0, -2).Format("2006-01-02"), Name: "Sexta-feira Santa", Kind: kindMovable},
		{Date: easter.Format("2006-01-02"), Name: "Páscoa", Kind: kindMovable},
		{Date: easter.AddDate(0, 0, 60).Format("2006-01-02"), Name: "Corpus Christi", Kind: kindMovable},
	}

	return append(fixed, movable...)
}

// easterSunday applies the anonymous Gregorian computus.
func easterSunday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func isoDate(year int, month time.Month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}
