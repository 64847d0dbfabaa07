package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSourceOrder(t *testing.T) {
	c := SourcesConf{Order: " freeproxy.world , proxyscan ,, pubproxy "}
	require.Equal(t, []string{"freeproxy.world", "proxyscan", "pubproxy"}, c.SourceOrder())

	require.Nil(t, (&SourcesConf{}).SourceOrder())
}

func TestAttemptBudgets(t *testing.T) {
	c := SourcesConf{Attempts: "3,2"}
	require.Equal(t, []int{3, 2, 2}, c.AttemptBudgets(3, 2))

	// Malformed and sub-1 entries fall back to the default.
	c = SourcesConf{Attempts: "x,0,5"}
	require.Equal(t, []int{2, 2, 5}, c.AttemptBudgets(3, 2))

	require.Equal(t, []int{2, 2}, (&SourcesConf{}).AttemptBudgets(2, 2))
}
