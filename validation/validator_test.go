package validation

import (
	"testing"

	"github.com/anjiri1684/quiz_connect/errs"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Name string `json:"name" validate:"required"`
}

type order struct {
	Email string `json:"email" validate:"required,email"`
	Qty   int    `json:"qty" validate:"gte=1"`
	Items []item `json:"items" validate:"omitempty,dive"`
}

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	var vErr *errs.ValidationError
	require.True(t, errors.As(err, &vErr), "got %v", err)
	out := make(map[string]string, len(vErr.Fields))
	for _, f := range vErr.Fields {
		out[f.Field] = f.Error
	}
	return out
}

func TestDecode(t *testing.T) {
	v := New()

	tests := []struct {
		name       string
		body       string
		wantErr    bool
		wantFields []string
	}{
		{name: "valid", body: `{"email":"a@b.co","qty":2}`},
		{name: "unknown field", body: `{"email":"a@b.co","qty":2,"admin":true}`, wantErr: true, wantFields: []string{"admin"}},
		{name: "wrong type", body: `{"email":"a@b.co","qty":"two"}`, wantErr: true, wantFields: []string{"qty"}},
		{name: "trailing data", body: `{"email":"a@b.co","qty":2}{}`, wantErr: true},
		{name: "not json", body: `email=a@b.co`, wantErr: true},
		{name: "empty", body: ``, wantErr: true},
		{name: "rules", body: `{"email":"nope","qty":0}`, wantErr: true, wantFields: []string{"email", "qty"}},
		{name: "nested", body: `{"email":"a@b.co","qty":1,"items":[{"name":""}]}`, wantErr: true, wantFields: []string{"items[0].name"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var o order
			err := v.Decode([]byte(tt.body), &o)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			fields := fieldsOf(t, err)
			for _, f := range tt.wantFields {
				assert.Contains(t, fields, f)
			}
		})
	}
}

func TestRequiredMessage(t *testing.T) {
	err := New().Struct(item{})
	assert.Equal(t, map[string]string{"name": requiredText}, fieldsOf(t, err))
}
