package domain

import (
	"strings"
	"testing"
)

func TestErrorMessagesCarryIdentifiers(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want []string
	}{
		{
			name: "dangling reference",
			err:  DanglingReferenceError{Entity: EntityUnit, EntityID: "u1", Field: "property_id", Target: EntityProperty, TargetID: "p9"},
			want: []string{"u1", "property_id", "p9"},
		},
		{
			name: "no landlord selected",
			err:  NoLandlordSelectedError{ManagerID: "m1"},
			want: []string{"m1"},
		},
		{
			name: "invalid page",
			err:  InvalidPageRequestError{Index: 0, Size: -3},
			want: []string{"index=0", "size=-3"},
		},
		{
			name: "stale mutation",
			err:  StaleMutationError{APIID: "api-7"},
			want: []string{"api-7"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg := tc.err.Error()
			for _, fragment := range tc.want {
				if !strings.Contains(msg, fragment) {
					t.Fatalf("message %q missing %q", msg, fragment)
				}
			}
		})
	}
}
