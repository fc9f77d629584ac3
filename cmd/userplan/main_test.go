package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedreader/internal/domain"
)

func TestBuildUpdate(t *testing.T) {
	u, err := buildUpdate(" PRO ", false, false, false)
	require.NoError(t, err)
	require.NotNil(t, u.Plan)
	assert.Equal(t, domain.UserPlanPro, *u.Plan)
	assert.Nil(t, u.Banned)
	assert.Nil(t, u.EmailVerified)

	u, err = buildUpdate("", false, true, true)
	require.NoError(t, err)
	require.NotNil(t, u.Banned)
	assert.False(t, *u.Banned)
	require.NotNil(t, u.EmailVerified)
	assert.True(t, *u.EmailVerified)
}

func TestBuildUpdateRejectsUnknownPlan(t *testing.T) {
	_, err := buildUpdate("supporter", false, false, false)
	assert.ErrorIs(t, err, domain.ErrUnsupportedPlan)
}

func TestBuildUpdateRejects(t *testing.T) {
	cases := []struct {
		name  string
		plan  string
		ban   bool
		unban bool
	}{
		{name: "unknown plan", plan: "supporter"},
		{name: "ban and unban", ban: true, unban: true},
		{name: "no changes"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := buildUpdate(tc.plan, tc.ban, tc.unban, false)
			assert.Error(t, err)
		})
	}
}
