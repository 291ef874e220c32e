package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFormatDate(t *testing.T) {
	cases := []struct {
		now    time.Time
		expect string
	}{
		{
			now:    time.Date(2022, time.January, 1, 12, 0, 0, 0, Location),
			expect: "20220101",
		},
		{
			// 20:00 UTC is already the next day in seoul
			now:    time.Date(2022, time.December, 31, 20, 0, 0, 0, time.UTC),
			expect: "20230101",
		},
	}

	for _, test := range cases {
		require.Equal(t, test.expect, FormatDate(test.now))
	}
}

func TestParseDate(t *testing.T) {
	parsed, err := ParseDate("20240229")
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, Location), parsed)

	for _, invalid := range []string{"2024-02-29", "20230229", "", "2024022"} {
		_, err := ParseDate(invalid)
		require.Error(t, err, invalid)
	}
}
