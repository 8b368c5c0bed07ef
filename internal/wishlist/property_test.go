package wishlist

import (
	"reflect"
	"testing"

	"github.com/amaumene/browsefilms/internal/models"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

const (
	opAdd = iota
	opRemove
	opClear
)

type op struct {
	Kind int
	ID   int
}

func opsGen() gopter.Gen {
	return gen.SliceOf(gen.Struct(reflect.TypeOf(op{}), map[string]gopter.Gen{
		"Kind": gen.IntRange(opAdd, opClear),
		"ID":   gen.IntRange(1, 5),
	}))
}

func TestStoreMatchesModel(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("contains reflects un-removed adds since last clear", prop.ForAll(
		func(ops []op) bool {
			s := New()
			model := map[int]int{}

			for _, o := range ops {
				switch o.Kind {
				case opAdd:
					s.Add(models.Movie{ID: o.ID})
					model[o.ID]++
				case opRemove:
					s.Remove(o.ID)
					delete(model, o.ID)
				case opClear:
					s.Clear()
					model = map[int]int{}
				}
			}

			total := 0
			for id := 1; id <= 5; id++ {
				if s.Contains(id) != (model[id] > 0) {
					return false
				}
				total += model[id]
			}
			return s.Len() == total
		},
		opsGen(),
	))

	properties.Property("toggle twice restores membership", prop.ForAll(
		func(ops []op, id int) bool {
			s := New()
			for _, o := range ops {
				if o.Kind == opAdd {
					s.Add(models.Movie{ID: o.ID})
				}
			}
			before := s.Contains(id)
			s.Toggle(models.Movie{ID: id})
			s.Toggle(models.Movie{ID: id})
			// a present movie is removed then re-added once
			return s.Contains(id) == before
		},
		opsGen(),
		gen.IntRange(1, 5),
	))

	properties.TestingRun(t)
}
