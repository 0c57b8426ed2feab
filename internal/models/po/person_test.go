package po_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/bionicotaku/lingo-services-person/internal/models/po"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestDateJSON(t *testing.T) {
	d := po.NewDate(1988, time.June, 19)

	data, err := json.Marshal(d)
	require.NoError(t, err)
	require.JSONEq(t, `"1988-06-19"`, string(data))

	var decoded po.Date
	require.NoError(t, json.Unmarshal([]byte(`"1993-01-18"`), &decoded))
	require.Equal(t, po.NewDate(1993, time.January, 18), decoded)

	require.NoError(t, json.Unmarshal([]byte(`null`), &decoded))
	require.True(t, decoded.IsZero())

	zero, err := json.Marshal(po.Date{})
	require.NoError(t, err)
	require.Equal(t, "null", string(zero))
}

func TestDateJSONRejectsMalformed(t *testing.T) {
	cases := []string{`"1988/06/19"`, `"1988-13-01"`, `19880619`, `"1988-06-19T00:00:00Z"`}
	for _, raw := range cases {
		var d po.Date
		require.Errorf(t, json.Unmarshal([]byte(raw), &d), "input %s", raw)
	}
}

func TestPersonBSONStoresDateAsString(t *testing.T) {
	id := primitive.NewObjectID()
	person := po.Person{
		ID:        id,
		Name:      "LOÏC",
		BirthDate: po.NewDate(1988, time.June, 19),
		Status:    po.PersonStatusLiving,
	}

	raw, err := bson.Marshal(person)
	require.NoError(t, err)

	var doc bson.M
	require.NoError(t, bson.Unmarshal(raw, &doc))
	require.Equal(t, "1988-06-19", doc["birthDate"])
	require.Equal(t, "LIVING", doc["status"])
	require.Equal(t, id, doc["_id"])

	var decoded po.Person
	require.NoError(t, bson.Unmarshal(raw, &decoded))
	require.Equal(t, person, decoded)
}

func TestPersonBSONAcceptsDateTime(t *testing.T) {
	raw, err := bson.Marshal(bson.M{
		"name":      "Legacy",
		"birthDate": primitive.NewDateTimeFromTime(time.Date(1964, time.October, 31, 0, 0, 0, 0, time.UTC)),
		"status":    "DECEASED",
	})
	require.NoError(t, err)

	var decoded po.Person
	require.NoError(t, bson.Unmarshal(raw, &decoded))
	require.Equal(t, po.NewDate(1964, time.October, 31), decoded.BirthDate)
	require.Equal(t, po.PersonStatusDeceased, decoded.Status)
}

func TestParsePersonStatus(t *testing.T) {
	status, err := po.ParsePersonStatus("DECEASED")
	require.NoError(t, err)
	require.Equal(t, po.PersonStatusDeceased, status)

	_, err = po.ParsePersonStatus("living")
	require.Error(t, err)

	_, err = po.ParsePersonStatus(" LIVING ")
	require.Error(t, err)
}

func TestPersonPatch(t *testing.T) {
	name := "ThePerson"
	patch := po.PersonPatch{Name: &name}
	require.False(t, patch.IsEmpty())
	require.Equal(t, map[string]any{"name": "ThePerson"}, patch.Fields())

	person := &po.Person{
		Name:      "LOÏC",
		BirthDate: po.NewDate(1988, time.June, 19),
		Status:    po.PersonStatusLiving,
	}
	patch.Apply(person)
	require.Equal(t, "ThePerson", person.Name)
	require.Equal(t, po.NewDate(1988, time.June, 19), person.BirthDate)
	require.Equal(t, po.PersonStatusLiving, person.Status)

	require.True(t, po.PersonPatch{}.IsEmpty())
}
