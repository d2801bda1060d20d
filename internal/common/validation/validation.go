// Package validation mengikat payload request lalu memvalidasinya dengan tag `validate`,
// menghasilkan peta error per field untuk klien.
package validation

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/c14220110/kasirung-backend/internal/common/errs"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// Validator mengembalikan instance validator bersama. Nama field pada error
// memakai nama tag json agar sama dengan payload yang dikirim klien.
func Validator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		// nominal uang divalidasi sebagai float64 sehingga tag gt/gte/required berlaku
		validate.RegisterCustomTypeFunc(func(v reflect.Value) interface{} {
			if d, ok := v.Interface().(decimal.Decimal); ok {
				f, _ := d.Float64()
				return f
			}
			return nil
		}, decimal.Decimal{})
	})
	return validate
}

// BindAndValidate mengikat request ke payload (harus pointer ke struct) lalu memvalidasinya.
func BindAndValidate(c echo.Context, payload interface{}) error {
	if err := c.Bind(payload); err != nil {
		return errs.BadRequest("Format request tidak valid")
	}
	return Struct(payload)
}

// Struct memvalidasi struct yang sudah terisi.
func Struct(payload interface{}) error {
	err := Validator().Struct(payload)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return errs.BadRequest(err.Error())
	}
	fields := make(map[string]string, len(ves))
	for _, fe := range ves {
		key := fieldPath(fe)
		if _, exists := fields[key]; !exists {
			fields[key] = message(fe)
		}
	}
	return errs.Validation(fields)
}

// fieldPath membuang nama struct terluar: "CreatePasienRequest.nama" -> "nama",
// "req.items[0].jumlah" -> "items[0].jumlah".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if", "required_without":
		return "wajib diisi"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("minimal %s karakter", fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("minimal %s item", fe.Param())
		}
		return fmt.Sprintf("minimal %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("maksimal %s karakter", fe.Param())
		}
		return fmt.Sprintf("maksimal %s", fe.Param())
	case "gt":
		return fmt.Sprintf("harus lebih dari %s", fe.Param())
	case "gte":
		return fmt.Sprintf("tidak boleh kurang dari %s", fe.Param())
	case "ne":
		return fmt.Sprintf("tidak boleh %s", fe.Param())
	case "nefield":
		return "harus berbeda dari nilai sebelumnya"
	case "oneof":
		return fmt.Sprintf("harus salah satu dari: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "len":
		return fmt.Sprintf("harus %s karakter", fe.Param())
	case "numeric":
		return "harus berupa angka"
	case "datetime":
		return fmt.Sprintf("format tanggal harus %s", humanLayout(fe.Param()))
	case "dive":
		return "terdapat item yang tidak valid"
	}
	if fe.Param() != "" {
		return fmt.Sprintf("tidak valid (%s=%s)", fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("tidak valid (%s)", fe.Tag())
}

func humanLayout(layout string) string {
	switch layout {
	case "2006-01-02":
		return "YYYY-MM-DD"
	case "2006-01":
		return "YYYY-MM"
	}
	return layout
}
