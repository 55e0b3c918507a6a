package entities

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	apperrors "github.com/zatekoja/studentscore/pkg/errors"
)

// Form keys submitted by the prediction page.
const (
	FieldGender                   = "gender"
	FieldEthnicity                = "ethnicity"
	FieldParentalLevelOfEducation = "parental_level_of_education"
	FieldLunch                    = "lunch"
	FieldTestPreparationCourse    = "test_preparation_course"
	FieldReadingScore             = "reading_score"
	FieldWritingScore             = "writing_score"
)

// FrameColumns is the column order the trained preprocessor expects.
var FrameColumns = []string{
	"gender",
	"race_ethnicity",
	"parental_level_of_education",
	"lunch",
	"test_preparation_course",
	"reading_score",
	"writing_score",
}

// StudentRecord is one validated form submission.
type StudentRecord struct {
	Gender                   string  `json:"gender"`
	RaceEthnicity            string  `json:"race_ethnicity"`
	ParentalLevelOfEducation string  `json:"parental_level_of_education"`
	Lunch                    string  `json:"lunch"`
	TestPreparationCourse    string  `json:"test_preparation_course"`
	ReadingScore             float64 `json:"reading_score"`
	WritingScore             float64 `json:"writing_score"`
}

type studentForm struct {
	Gender                   string `form:"gender" validate:"required"`
	Ethnicity                string `form:"ethnicity" validate:"required"`
	ParentalLevelOfEducation string `form:"parental_level_of_education" validate:"required"`
	Lunch                    string `form:"lunch" validate:"required"`
	TestPreparationCourse    string `form:"test_preparation_course" validate:"required"`
	ReadingScore             string `form:"reading_score" validate:"required"`
	WritingScore             string `form:"writing_score" validate:"required"`
}

var formValidator = newFormValidator()

func newFormValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("form")
	})
	return v
}

// FormValues is the subset of url.Values used to build a record.
type FormValues interface {
	Get(key string) string
}

// NewStudentRecord builds a record from submitted form values. Every field is
// required and both scores must parse as floats; no other checks are made.
func NewStudentRecord(values FormValues) (*StudentRecord, error) {
	form := studentForm{
		Gender:                   values.Get(FieldGender),
		Ethnicity:                values.Get(FieldEthnicity),
		ParentalLevelOfEducation: values.Get(FieldParentalLevelOfEducation),
		Lunch:                    values.Get(FieldLunch),
		TestPreparationCourse:    values.Get(FieldTestPreparationCourse),
		ReadingScore:             strings.TrimSpace(values.Get(FieldReadingScore)),
		WritingScore:             strings.TrimSpace(values.Get(FieldWritingScore)),
	}

	if err := formValidator.Struct(form); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
			return nil, apperrors.NewFieldValidationError(fieldErrs[0].Field(), "is required", err)
		}
		return nil, apperrors.NewValidationError(err.Error())
	}

	reading, err := strconv.ParseFloat(form.ReadingScore, 64)
	if err != nil {
		return nil, apperrors.NewFieldValidationError(FieldReadingScore, "must be a number", err)
	}
	writing, err := strconv.ParseFloat(form.WritingScore, 64)
	if err != nil {
		return nil, apperrors.NewFieldValidationError(FieldWritingScore, "must be a number", err)
	}

	return &StudentRecord{
		Gender:                   form.Gender,
		RaceEthnicity:            form.Ethnicity,
		ParentalLevelOfEducation: form.ParentalLevelOfEducation,
		Lunch:                    form.Lunch,
		TestPreparationCourse:    form.TestPreparationCourse,
		ReadingScore:             reading,
		WritingScore:             writing,
	}, nil
}

// Frame returns the record as a single-row frame in FrameColumns order.
func (r *StudentRecord) Frame() *Frame {
	columns := make([]string, len(FrameColumns))
	copy(columns, FrameColumns)

	return &Frame{
		Columns: columns,
		Rows: [][]any{{
			r.Gender,
			r.RaceEthnicity,
			r.ParentalLevelOfEducation,
			r.Lunch,
			r.TestPreparationCourse,
			r.ReadingScore,
			r.WritingScore,
		}},
	}
}
