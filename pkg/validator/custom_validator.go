// Package validator wires go-playground/validator into gin with the service's custom tags.
package validator

import (
	"reflect"
	"sync"

	"github.com/haierkeys/note-share-service/pkg/util"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/gookit/goutil/strutil"
)

// CustomValidator implements gin's binding.StructValidator.
// CustomValidator 实现 gin 的 binding.StructValidator
type CustomValidator struct {
	once     sync.Once
	validate *validator.Validate
}

func NewCustomValidator() *CustomValidator {
	return &CustomValidator{}
}

func (v *CustomValidator) ValidateStruct(obj any) error {
	if obj == nil {
		return nil
	}

	value := reflect.ValueOf(obj)
	switch value.Kind() {
	case reflect.Ptr:
		if value.IsNil() {
			return nil
		}
		return v.ValidateStruct(value.Elem().Interface())
	case reflect.Struct:
		v.lazyinit()
		return v.validate.Struct(obj)
	case reflect.Slice, reflect.Array:
		for i := 0; i < value.Len(); i++ {
			if err := v.ValidateStruct(value.Index(i).Interface()); err != nil {
				return err
			}
		}
		return nil
	default:
		return nil
	}
}

func (v *CustomValidator) Engine() any {
	v.lazyinit()
	return v.validate
}

func (v *CustomValidator) lazyinit() {
	v.once.Do(func() {
		v.validate = validator.New()
		v.validate.SetTagName("binding")
	})
}

// RegisterCustom registers the custom tags on gin's current validator engine:
//
//	notblank  string must contain a non-space character
//	username  letters, digits, underscore, 3-20 chars
//	eachnotblank  every string of a slice is notblank
func RegisterCustom() error {
	validate, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return RegisterTo(validate)
}

// RegisterTo registers the custom tags on validate.
func RegisterTo(validate *validator.Validate) error {
	if err := validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return fl.Field().Kind() != reflect.String || strutil.IsNotBlank(fl.Field().String())
	}); err != nil {
		return err
	}

	if err := validate.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return util.IsValidUsername(fl.Field().String())
	}); err != nil {
		return err
	}

	return validate.RegisterValidation("eachnotblank", func(fl validator.FieldLevel) bool {
		field := fl.Field()
		if field.Kind() != reflect.Slice {
			return false
		}
		for i := 0; i < field.Len(); i++ {
			item := field.Index(i)
			if item.Kind() != reflect.String || strutil.IsBlank(item.String()) {
				return false
			}
		}
		return true
	})
}
