// utils/slug.go
package utils

import (
	"fmt"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// UniqueSlug derives a URL-safe slug from base and probes the model's table for
// collisions, appending -2, -3, ... until the slug is free. The optional scope
// narrows uniqueness to sibling rows (e.g. sites within one customer).
func UniqueSlug(tx *gorm.DB, model interface{}, base string, scope map[string]interface{}) (string, error) {
	candidate := slug.Make(base)
	if candidate == "" {
		candidate = "untitled"
	}

	db := tx.Session(&gorm.Session{NewDB: true})
	for i := 1; ; i++ {
		s := candidate
		if i > 1 {
			s = fmt.Sprintf("%s-%d", candidate, i)
		}

		query := db.Model(model).Where("slug = ?", s)
		for column, value := range scope {
			query = query.Where(fmt.Sprintf("%s = ?", column), value)
		}

		var count int64
		if err := query.Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return s, nil
		}
	}
}
