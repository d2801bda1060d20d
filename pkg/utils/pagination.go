package utils

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Pagination dibaca dari query ?page=&limit=. Nilai tidak valid kembali ke default.
type Pagination struct {
	Page  int
	Limit int
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

func ParsePagination(c echo.Context) Pagination {
	p := Pagination{Page: 1, Limit: DefaultLimit}
	if v, err := strconv.Atoi(c.QueryParam("page")); err == nil && v > 0 {
		p.Page = v
	}
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 {
		p.Limit = v
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// ParseID membaca parameter path numerik positif.
func ParseID(c echo.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ParseOptionalInt membaca query integer opsional; ok=false jika ada tetapi tidak valid.
func ParseOptionalInt(c echo.Context, name string) (*int, bool) {
	s := c.QueryParam(name)
	if s == "" {
		return nil, true
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, false
	}
	return &v, true
}

// DateRange membaca ?dari=YYYY-MM-DD&sampai=YYYY-MM-DD. Default: hari ini. Batas akhir
// dikembalikan eksklusif (awal hari berikutnya) agar aman dipakai dengan "< ?".
func DateRange(c echo.Context, loc *time.Location, defaultDays int) (time.Time, time.Time, bool) {
	now := time.Now().In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	start := today.AddDate(0, 0, -(defaultDays - 1))
	end := today

	if s := c.QueryParam("dari"); s != "" {
		t, err := time.ParseInLocation("2006-01-02", s, loc)
		if err != nil {
			return time.Time{}, time.Time{}, false
		}
		start = t
	}
	if s := c.QueryParam("sampai"); s != "" {
		t, err := time.ParseInLocation("2006-01-02", s, loc)
		if err != nil {
			return time.Time{}, time.Time{}, false
		}
		end = t
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, false
	}
	return start, end.AddDate(0, 0, 1), true
}
