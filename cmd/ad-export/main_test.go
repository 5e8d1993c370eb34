package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOUComponent(t *testing.T) {
	tests := []struct {
		dn       string
		expected string
	}{
		{"CN=jdoe,OU=Berlin,OU=People,DC=example,DC=com", "Berlin"},
		{"CN=jdoe,DC=example,DC=com", ""},
		{"CN=jdoe,OU=Berlin\\, HQ,DC=example,DC=com", "Berlin, HQ"},
		{"not a dn", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ouComponent(tt.dn), "dn %q", tt.dn)
	}
}

func TestGroupNames(t *testing.T) {
	memberOf := []string{
		"CN=Developers,OU=Groups,DC=example,DC=com",
		"CN=Domain Admins,CN=Users,DC=example,DC=com",
		"garbage",
	}

	assert.Equal(t, []string{"Developers", "Domain Admins"}, groupNames(memberOf))
}
