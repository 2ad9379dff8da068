package api

import (
	"fmt"

	"github.com/octabyte/medtrack-gommon/apierror"
	"github.com/octabyte/medtrack-gommon/enums"
	"github.com/octabyte/medtrack-gommon/models"
	"github.com/octabyte/medtrack-gommon/utils"
	"github.com/tidwall/gjson"
)

// reply is a successful response body with the status it came with.
type reply struct {
	data   []byte
	status int
}

// decodePage reads {data: {data: [...], nextPage}}. A nextPage that is
// absent, null or false means there is no next page; a bare array under
// data is accepted and paged by size.
func decodePage[T any](r reply, number int) (models.Page[T], error) {
	page := models.Page[T]{Number: number, Items: []T{}}
	if !gjson.ValidBytes(r.data) {
		return page, apierror.Malformed(r.status, fmt.Errorf("invalid json"))
	}

	data := gjson.GetBytes(r.data, "data")
	var items gjson.Result
	switch {
	case data.IsArray():
		items = data
	case data.Get("data").IsArray():
		items = data.Get("data")
	default:
		return page, apierror.Malformed(r.status, fmt.Errorf("no list in response"))
	}

	if err := utils.BytesToStruct([]byte(items.Raw), &page.Items); err != nil {
		return page, apierror.Malformed(r.status, err)
	}

	if data.IsArray() {
		page.HasNext = len(page.Items) >= DefaultPageSize
		return page, nil
	}

	next := data.Get("nextPage")
	switch next.Type {
	case gjson.True:
		page.HasNext = true
	case gjson.Number:
		page.HasNext = next.Int() > 0
	}
	return page, nil
}

// decodeOne reads a single resource, unwrapped from "data" when present.
func decodeOne[T any](r reply) (T, error) {
	var out T
	if !gjson.ValidBytes(r.data) {
		return out, apierror.Malformed(r.status, fmt.Errorf("invalid json"))
	}

	raw := r.data
	if data := gjson.GetBytes(r.data, "data"); data.IsObject() {
		raw = []byte(data.Raw)
	}
	if err := utils.BytesToStruct(raw, &out); err != nil {
		return out, apierror.Malformed(r.status, err)
	}
	return out, nil
}

// decodeIdentity reads the first of paths holding an identity object.
func decodeIdentity(r reply, paths ...string) (models.Identity, error) {
	if !gjson.ValidBytes(r.data) {
		return models.Identity{}, apierror.Malformed(r.status, fmt.Errorf("invalid json"))
	}

	for _, path := range paths {
		info := gjson.GetBytes(r.data, path)
		if !info.IsObject() {
			continue
		}

		id := info.Get("_id")
		if !id.Exists() {
			id = info.Get("id")
		}
		identity := models.Identity{
			ID:    id.String(),
			Name:  info.Get("name").String(),
			Email: info.Get("email").String(),
			Role:  enums.Role(info.Get("role").String()),
		}
		if identity.ID == "" || !identity.Role.Valid() {
			return models.Identity{}, apierror.Malformed(r.status, fmt.Errorf("%s: incomplete identity", path))
		}
		return identity, nil
	}

	return models.Identity{}, apierror.Malformed(r.status, fmt.Errorf("no identity in response"))
}
