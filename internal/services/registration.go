// internal/services/registration.go
package services

import (
	"strconv"

	"github.com/dravik/licensing-console/internal/api"
	"github.com/dravik/licensing-console/internal/i18n"
	"github.com/dravik/licensing-console/internal/models"
	"github.com/dravik/licensing-console/internal/utils"
)

// RegistrationForm is the asset registration form. Field order matches the
// multipart payload.
type RegistrationForm struct {
	Title             string        `json:"title" validate:"notblank"`
	Description       string        `json:"description" validate:"notblank"`
	CreatorName       string        `json:"creatorName" validate:"notblank"`
	CreatorWallet     string        `json:"creatorWallet" validate:"wallet_shape"`
	CommercialAllowed bool          `json:"commercialAllowed"`
	RemixAllowed      bool          `json:"remixAllowed"`
	AITrainingAllowed bool          `json:"aiTrainingAllowed"`
	RevShare          models.Amount `json:"revShare" validate:"gte=0"`
	MaxLicenses       models.Amount `json:"maxLicenses" validate:"gt=0"`
}

var registrationMessages = utils.FieldMessages{
	"title":         i18n.KeyRegisterTitleRequired,
	"description":   i18n.KeyRegisterDescriptionRequired,
	"creatorName":   i18n.KeyRegisterCreatorRequired,
	"creatorWallet": i18n.KeyRegisterInvalidWallet,
	"revShare":      i18n.KeyRegisterRoyaltyNegative,
	"maxLicenses":   i18n.KeyRegisterMinLicenses,
}

func defaultRegistrationForm() RegistrationForm {
	return RegistrationForm{MaxLicenses: 1}
}

// Validate runs the local checks. A nil result means the form may be sent.
func (f RegistrationForm) Validate(lang string) []utils.ValidationError {
	if err := utils.ValidateStruct(&f); err != nil {
		return utils.LocalizedValidationErrors(err, lang, registrationMessages)
	}
	return nil
}

// Fields renders the form as ordered multipart values.
func (f RegistrationForm) Fields() [][2]string {
	return [][2]string{
		{"title", f.Title},
		{"description", f.Description},
		{"creatorName", f.CreatorName},
		{"creatorWallet", f.CreatorWallet},
		{"commercialAllowed", strconv.FormatBool(f.CommercialAllowed)},
		{"remixAllowed", strconv.FormatBool(f.RemixAllowed)},
		{"aiTrainingAllowed", strconv.FormatBool(f.AITrainingAllowed)},
		{"revShare", f.RevShare.String()},
		{"maxLicenses", f.MaxLicenses.String()},
	}
}

// applyTemplate copies the locked fields of t into the form.
func (f *RegistrationForm) applyTemplate(t Template) {
	f.Title = t.Title
	f.Description = t.Description
	f.CommercialAllowed = t.Licenses.CommercialAllowed
	f.RemixAllowed = t.Licenses.RemixAllowed
	f.AITrainingAllowed = t.Licenses.AITrainingAllowed
	f.RevShare = models.Amount(t.Licenses.RevShare)
	f.MaxLicenses = models.Amount(t.Licenses.MaxLicenses)
}

// RegistrationDraft is a partial edit of the form; nil fields are left
// alone.
type RegistrationDraft struct {
	Title             *string        `json:"title"`
	Description       *string        `json:"description"`
	CreatorName       *string        `json:"creatorName"`
	CreatorWallet     *string        `json:"creatorWallet"`
	CommercialAllowed *bool          `json:"commercialAllowed"`
	RemixAllowed      *bool          `json:"remixAllowed"`
	AITrainingAllowed *bool          `json:"aiTrainingAllowed"`
	RevShare          *models.Amount `json:"revShare"`
	MaxLicenses       *models.Amount `json:"maxLicenses"`

	Image      *api.File `json:"-"`
	Media      *api.File `json:"-"`
	ClearImage bool      `json:"clearImage"`
	ClearMedia bool      `json:"clearMedia"`
}

// Registration is the state of the register-asset page.
type Registration struct {
	page

	form        RegistrationForm
	useTemplate bool
	template    *Template
	image       *api.File
	media       *api.File
	submitting  bool
	errors      []utils.ValidationError
}

func NewRegistration() *Registration {
	return &Registration{form: defaultRegistrationForm()}
}

// RegistrationView is what the page renders.
type RegistrationView struct {
	Form         RegistrationForm        `json:"form"`
	UseTemplate  bool                    `json:"useTemplate"`
	TemplateID   string                  `json:"templateId,omitempty"`
	Templates    []Template              `json:"templates,omitempty"`
	LockedFields []string                `json:"lockedFields,omitempty"`
	ImageName    string                  `json:"imageName,omitempty"`
	MediaName    string                  `json:"mediaName,omitempty"`
	Submitting   bool                    `json:"submitting"`
	CanSubmit    bool                    `json:"canSubmit"`
	Errors       []utils.ValidationError `json:"errors,omitempty"`
}

// templateLocked are the fields a template owns while template mode is on.
var templateLocked = []string{
	"title", "description", "commercialAllowed", "remixAllowed",
	"aiTrainingAllowed", "revShare", "maxLicenses",
}

// View snapshots the page.
func (r *Registration) View() RegistrationView {
	var v RegistrationView
	r.read(func() {
		v = RegistrationView{
			Form:        r.form,
			UseTemplate: r.useTemplate,
			Submitting:  r.submitting,
			CanSubmit:   !r.submitting && (!r.useTemplate || r.template != nil),
			Errors:      r.errors,
		}
		if r.useTemplate {
			v.LockedFields = templateLocked
		}
		if r.template != nil {
			v.TemplateID = r.template.ID
		}
		if r.image != nil && !r.useTemplate {
			v.ImageName = r.image.Name
		}
		if r.media != nil {
			v.MediaName = r.media.Name
		}
	})
	return v
}

// Form returns the current form values.
func (r *Registration) Form() RegistrationForm {
	var f RegistrationForm
	r.read(func() { f = r.form })
	return f
}

// Edit applies d. Fields locked by template mode and the image upload,
// which template mode replaces, are ignored while it is on.
func (r *Registration) Edit(d RegistrationDraft) error {
	ok := r.update(func() {
		f := &r.form
		if d.CreatorName != nil {
			f.CreatorName = *d.CreatorName
		}
		if d.CreatorWallet != nil {
			f.CreatorWallet = *d.CreatorWallet
		}
		if d.Media != nil {
			r.media = d.Media
		} else if d.ClearMedia {
			r.media = nil
		}

		if r.useTemplate {
			return
		}
		if d.Title != nil {
			f.Title = *d.Title
		}
		if d.Description != nil {
			f.Description = *d.Description
		}
		if d.CommercialAllowed != nil {
			f.CommercialAllowed = *d.CommercialAllowed
		}
		if d.RemixAllowed != nil {
			f.RemixAllowed = *d.RemixAllowed
		}
		if d.AITrainingAllowed != nil {
			f.AITrainingAllowed = *d.AITrainingAllowed
		}
		if d.RevShare != nil {
			f.RevShare = *d.RevShare
		}
		if d.MaxLicenses != nil {
			f.MaxLicenses = *d.MaxLicenses
		}
		if d.Image != nil {
			r.image = d.Image
		} else if d.ClearImage {
			r.image = nil
		}
	})
	if !ok {
		return ErrWorkspaceClosed
	}
	return nil
}

// SetTemplateMode turns template mode on or off. Either way the selected
// template is cleared; the form keeps its values.
func (r *Registration) SetTemplateMode(on bool) error {
	if !r.update(func() {
		r.useTemplate = on
		r.template = nil
	}) {
		return ErrWorkspaceClosed
	}
	return nil
}

// SelectTemplate fills the locked fields from t and turns template mode on.
// The uploaded image is dropped in favour of the template's.
func (r *Registration) SelectTemplate(t Template) error {
	if !r.update(func() {
		r.useTemplate = true
		r.template = &t
		r.form.applyTemplate(t)
		r.image = nil
	}) {
		return ErrWorkspaceClosed
	}
	return nil
}

// submission is a consistent copy of what a submit sends.
type submission struct {
	form        RegistrationForm
	useTemplate bool
	template    *Template
	image       *api.File
	media       *api.File
}

// begin validates the form and marks the page as submitting.
func (r *Registration) begin(lang string) (*submission, error) {
	var (
		sub *submission
		err error
	)
	ok := r.update(func() {
		if r.submitting {
			err = &UserError{Kind: KindConflict, Msg: i18n.M(i18n.KeyRegisterSubmitting)}
			return
		}
		if r.useTemplate && r.template == nil {
			err = validationError(i18n.M(i18n.KeyRegisterTemplateRequired), nil)
			return
		}
		r.errors = r.form.Validate(lang)
		if len(r.errors) > 0 {
			err = validationError(i18n.M(i18n.KeyFixErrors), r.errors)
			return
		}
		r.submitting = true
		sub = &submission{
			form:        r.form,
			useTemplate: r.useTemplate,
			template:    r.template,
			image:       r.image,
			media:       r.media,
		}
	})
	if !ok {
		return nil, ErrWorkspaceClosed
	}
	return sub, err
}

// finish clears the submitting mark and, after a successful submit outside
// template mode, resets the form.
func (r *Registration) finish(sub *submission, succeeded bool) {
	r.update(func() {
		r.submitting = false
		if succeeded && !sub.useTemplate {
			r.form = defaultRegistrationForm()
			r.image = nil
			r.media = nil
			r.errors = nil
		}
	})
}
