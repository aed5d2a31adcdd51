package credential

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGuard_Authorize(t *testing.T) {
	owned := &Credential{
		ID:          "cred-1",
		OwnerUserID: "owner",
		SharedWith:  []ShareGrant{{GranteeUserID: "grantee"}},
	}

	allOps := []Operation{OpRead, OpEdit, OpDelete, OpShare, OpRevoke}

	tests := []struct {
		name       string
		credential *Credential
		userID     string
		allowed    map[Operation]bool
	}{
		{
			name:       "owner may do anything",
			credential: owned,
			userID:     "owner",
			allowed:    map[Operation]bool{OpRead: true, OpEdit: true, OpDelete: true, OpShare: true, OpRevoke: true},
		},
		{
			name:       "grantee may read and edit only",
			credential: owned,
			userID:     "grantee",
			allowed:    map[Operation]bool{OpRead: true, OpEdit: true, OpDelete: false, OpShare: false, OpRevoke: false},
		},
		{
			name:       "stranger is denied everything",
			credential: owned,
			userID:     "stranger",
			allowed:    map[Operation]bool{},
		},
		{
			name:       "nil credential is denied",
			credential: nil,
			userID:     "owner",
			allowed:    map[Operation]bool{},
		},
	}

	guard := NewGuard()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, op := range allOps {
				err := guard.Authorize(op, tt.credential, tt.userID)
				if tt.allowed[op] {
					assert.NoError(t, err, "operation %s", op)
				} else {
					assert.ErrorIs(t, err, ErrAccessDenied, "operation %s", op)
				}
			}
		})
	}
}

func TestGuard_CanRead(t *testing.T) {
	guard := NewGuard()
	c := &Credential{OwnerUserID: "owner", SharedWith: []ShareGrant{{GranteeUserID: "grantee"}}}

	assert.True(t, guard.CanRead(c, "owner"))
	assert.True(t, guard.CanRead(c, "grantee"))
	assert.False(t, guard.CanRead(c, "stranger"))
	assert.False(t, guard.CanRead(nil, "owner"))
}
