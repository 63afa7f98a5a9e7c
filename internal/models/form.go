package models

import "strings"

// DocType is the kind of governing document selected on the upload form.
type DocType string

const (
	DocTypeCCR    DocType = "ccr"
	DocTypeRules  DocType = "rules"
	DocTypeBylaws DocType = "bylaws"
	DocTypeOther  DocType = "other"
)

// DocTypes is the ordered set offered by the upload form.
var DocTypes = []DocType{DocTypeCCR, DocTypeRules, DocTypeBylaws, DocTypeOther}

var docTypeLabels = map[DocType]string{
	DocTypeCCR:    "Covenants, Conditions & Restrictions (CC&Rs)",
	DocTypeRules:  "Rules & Regulations",
	DocTypeBylaws: "Bylaws",
	DocTypeOther:  "Other",
}

// Valid reports whether t is a known document type.
func (t DocType) Valid() bool {
	_, ok := docTypeLabels[t]
	return ok
}

// Label returns the display label, or the raw value for unknown types.
func (t DocType) Label() string {
	if l, ok := docTypeLabels[t]; ok {
		return l
	}
	return string(t)
}

// UploadForm is the metadata submitted alongside an uploaded PDF.
type UploadForm struct {
	HOAName       string  `json:"hoaName" form:"hoaName"`
	City          string  `json:"city" form:"city"`
	State         string  `json:"state" form:"state"`
	Zipcode       string  `json:"zipcode" form:"zipcode"`
	DocType       DocType `json:"docType" form:"docType"`
	CustomDocName string  `json:"customDocName" form:"customDocName"`
}

// Validate returns every problem with the form. An empty result means the
// form can be submitted.
func (f UploadForm) Validate() []ValidationError {
	var errs []ValidationError
	if strings.TrimSpace(f.HOAName) == "" {
		errs = append(errs, ValidationError{Field: "hoaName", Message: "HOA name is required"})
	}
	switch {
	case f.DocType == "":
		errs = append(errs, ValidationError{Field: "docType", Message: "Document type is required"})
	case !f.DocType.Valid():
		errs = append(errs, ValidationError{Field: "docType", Message: "Unknown document type"})
	case f.DocType == DocTypeOther && strings.TrimSpace(f.CustomDocName) == "":
		errs = append(errs, ValidationError{Field: "customDocName", Message: "Document name is required"})
	}
	errs = append(errs, f.Location().Validate()...)
	return errs
}

// DocName is the stored display name: the custom name when given, otherwise
// the label of the selected type.
func (f UploadForm) DocName() string {
	if name := strings.TrimSpace(f.CustomDocName); name != "" {
		return name
	}
	return f.DocType.Label()
}

// Location builds the HOA location from the trimmed form fields.
func (f UploadForm) Location() Location {
	return Location{
		City:    strings.TrimSpace(f.City),
		State:   strings.ToUpper(strings.TrimSpace(f.State)),
		Zipcode: strings.TrimSpace(f.Zipcode),
	}
}
