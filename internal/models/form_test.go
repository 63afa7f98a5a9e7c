package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validForm() UploadForm {
	return UploadForm{
		HOAName: "Willow Creek",
		City:    " Austin ",
		State:   "TX",
		Zipcode: "78701",
		DocType: DocTypeCCR,
	}
}

func fields(errs []ValidationError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Field)
	}
	return out
}

func TestUploadFormValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*UploadForm)
		want   []string
	}{
		{name: "valid", mutate: func(*UploadForm) {}, want: []string{}},
		{name: "blank hoa name", mutate: func(f *UploadForm) { f.HOAName = "   " }, want: []string{"hoaName"}},
		{name: "missing doc type", mutate: func(f *UploadForm) { f.DocType = "" }, want: []string{"docType"}},
		{name: "unknown doc type", mutate: func(f *UploadForm) { f.DocType = "minutes" }, want: []string{"docType"}},
		{name: "other without custom name", mutate: func(f *UploadForm) { f.DocType = DocTypeOther }, want: []string{"customDocName"}},
		{name: "other with custom name", mutate: func(f *UploadForm) {
			f.DocType = DocTypeOther
			f.CustomDocName = "Architectural Guidelines"
		}, want: []string{}},
		{name: "missing city", mutate: func(f *UploadForm) { f.City = "" }, want: []string{"city"}},
		{name: "missing state", mutate: func(f *UploadForm) { f.State = "" }, want: []string{"state"}},
		{name: "unknown state", mutate: func(f *UploadForm) { f.State = "ZZ" }, want: []string{"state"}},
		{name: "short zip", mutate: func(f *UploadForm) { f.Zipcode = "7870" }, want: []string{"zipcode"}},
		{name: "zip plus four", mutate: func(f *UploadForm) { f.Zipcode = "78701-1234" }, want: []string{"zipcode"}},
		{name: "everything missing", mutate: func(f *UploadForm) { *f = UploadForm{} }, want: []string{"hoaName", "docType", "city", "state", "zipcode"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			tt.mutate(&f)
			assert.Equal(t, tt.want, fields(f.Validate()))
		})
	}
}

func TestUploadFormDocName(t *testing.T) {
	f := validForm()
	assert.Equal(t, "Covenants, Conditions & Restrictions (CC&Rs)", f.DocName())

	f.DocType = DocTypeOther
	f.CustomDocName = "  Pool Policy "
	assert.Equal(t, "Pool Policy", f.DocName())
}

func TestUploadFormLocation(t *testing.T) {
	f := validForm()
	f.State = "tx"
	loc := f.Location()
	require.Equal(t, Location{City: "Austin", State: "TX", Zipcode: "78701"}, loc)
	assert.Equal(t, "Austin, TX, 78701", loc.String())
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleUser.Valid())
	assert.True(t, RoleAssistant.Valid())
	assert.True(t, RoleSystem.Valid())
	assert.False(t, Role("tool").Valid())
}
