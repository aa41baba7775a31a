package extract

import (
	"reflect"
	"testing"
)

func TestExtractDates(t *testing.T) {
	testCases := []struct {
		name    string
		text    string
		spanish bool
		iso     bool
		want    []string
	}{
		{
			name:    "NumericForm",
			text:    "presentado el 15/03/2023 ante el juzgado",
			spanish: true,
			iso:     true,
			want:    []string{"2023-03-15"},
		},
		{
			name:    "SpanishLongForm",
			text:    "a 15 de octubre de 2023, se acuerda",
			spanish: true,
			iso:     true,
			want:    []string{"2023-10-15"},
		},
		{
			name:    "SpanishLongFormDel",
			text:    "el 1 de enero del 2024",
			spanish: true,
			iso:     true,
			want:    []string{"2024-01-01"},
		},
		{
			name:    "AccentedMonth",
			text:    "9 de Septiembre de 2022",
			spanish: true,
			iso:     true,
			want:    []string{"2022-09-09"},
		},
		{
			name:    "ISOForm",
			text:    "fecha límite 2023-12-31 inclusive",
			spanish: true,
			iso:     true,
			want:    []string{"2023-12-31"},
		},
		{
			name:    "ImpossibleDateDropped",
			text:    "el 31/02/2023 no existe, pero el 28/02/2023 sí",
			spanish: true,
			iso:     true,
			want:    []string{"2023-02-28"},
		},
		{
			name:    "InvalidBetweenValid",
			text:    "2023-10-15 fecha-invalida 2023-12-01",
			spanish: true,
			iso:     true,
			want:    []string{"2023-10-15", "2023-12-01"},
		},
		{
			name:    "UnknownMonthDropped",
			text:    "5 de brumario de 2023",
			spanish: true,
			iso:     true,
			want:    []string{},
		},
		{
			name:    "OrderOfAppearance",
			text:    "2023-01-02 luego 15/03/2022 y al final 1 de mayo de 2021",
			spanish: true,
			iso:     true,
			want:    []string{"2023-01-02", "2022-03-15", "2021-05-01"},
		},
		{
			name:    "ISODisabled",
			text:    "2023-01-02 y 15/03/2022",
			spanish: true,
			iso:     false,
			want:    []string{"2022-03-15"},
		},
		{
			name:    "SpanishDisabled",
			text:    "2023-01-02 y 15/03/2022",
			spanish: false,
			iso:     true,
			want:    []string{"2023-01-02"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ExtractDates(tc.text, tc.spanish, tc.iso)
			if len(got) == 0 && len(tc.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("ExtractDates(%q) = %v, want %v", tc.text, got, tc.want)
			}
		})
	}
}
