package handlers

import (
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"blog-go/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
	"github.com/pkg/errors"
)

var (
	decoder  = newDecoder()
	validate = newValidator()
)

func newDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

// newValidator reports fields by their form name so errors line up with
// the inputs in the templates.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("schema"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type registerForm struct {
	Name     string `schema:"name" validate:"required,max=250"`
	Email    string `schema:"email" validate:"required,email,max=250"`
	Password string `schema:"password" validate:"required,max=72"`
}

func (f *registerForm) normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
}

type loginForm struct {
	Email    string `schema:"email" validate:"required,email"`
	Password string `schema:"password" validate:"required"`
}

func (f *loginForm) normalize() {
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
}

type postForm struct {
	Title    string `schema:"title" validate:"required,max=250"`
	Subtitle string `schema:"subtitle" validate:"required,max=250"`
	ImgURL   string `schema:"img_url" validate:"required,url,max=250"`
	Body     string `schema:"body" validate:"required"`
}

func (f *postForm) normalize() {
	f.Title = strings.TrimSpace(f.Title)
	f.Subtitle = strings.TrimSpace(f.Subtitle)
	f.ImgURL = strings.TrimSpace(f.ImgURL)
}

func (f *postForm) fields() models.PostFields {
	return models.PostFields{Title: f.Title, Subtitle: f.Subtitle, Body: f.Body, ImgURL: f.ImgURL}
}

func postFormFrom(p *models.Post) postForm {
	return postForm{Title: p.Title, Subtitle: p.Subtitle, Body: p.Body, ImgURL: p.ImgURL}
}

type commentForm struct {
	Comment string `schema:"comment" validate:"required,max=5000"`
}

func (f *commentForm) normalize() {
	f.Comment = strings.TrimSpace(f.Comment)
}

type form interface {
	normalize()
}

// decodeForm fills dst from the posted form and validates it. The returned
// map holds one message per invalid field and is empty when dst is valid.
func decodeForm(r *http.Request, dst form) (map[string]string, error) {
	if err := r.ParseForm(); err != nil {
		return nil, errors.Wrap(err, "parsing form failed")
	}
	if err := decoder.Decode(dst, r.PostForm); err != nil {
		return nil, errors.Wrap(err, "decoding form failed")
	}
	dst.normalize()

	fieldErrors := map[string]string{}
	err := validate.Struct(dst)
	if err == nil {
		return fieldErrors, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, errors.Wrap(err, "validating form failed")
	}
	for _, fe := range verrs {
		fieldErrors[fe.Field()] = message(fe)
	}
	return fieldErrors, nil
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "url":
		return "Enter a valid URL."
	case "max":
		return fmt.Sprintf("Must be at most %s characters.", fe.Param())
	default:
		return "Invalid value."
	}
}
