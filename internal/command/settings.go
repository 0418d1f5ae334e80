package command

import (
	"github.com/mwheeler/sessiondb/internal/persistence"
	"github.com/mwheeler/sessiondb/internal/proto"
	"github.com/mwheeler/sessiondb/internal/store"
)

func GetCommand(s *store.Store) func([]string) proto.Value {
	return func(args []string) proto.Value {
		if len(args) != 1 {
			return proto.ErrorValue("ERR wrong number of arguments for 'get' command")
		}

		value, exists := s.Get(args[0])
		if !exists {
			// A missing key is an ordinary outcome, never an error reply.
			return proto.NullBulkValue()
		}
		return proto.BulkStringValue(value)
	}
}

func SetCommand(s *store.Store) func([]string) proto.Value {
	return func(args []string) proto.Value {
		if len(args) != 2 {
			return proto.ErrorValue("ERR wrong number of arguments for 'set' command")
		}

		s.Set(args[0], args[1])
		return proto.OKValue()
	}
}

func KeysCommand(s *store.Store) func([]string) proto.Value {
	return func(args []string) proto.Value {
		if len(args) != 0 {
			return proto.ErrorValue("ERR wrong number of arguments for 'keys' command")
		}

		return proto.ArrayOfStrings(s.Keys())
	}
}

func CountCommand(s *store.Store) func([]string) proto.Value {
	return func(args []string) proto.Value {
		if len(args) != 0 {
			return proto.ErrorValue("ERR wrong number of arguments for 'count' command")
		}

		return proto.IntegerValue(int64(s.Len()))
	}
}

func SaveCommand(s *store.Store, path string) func([]string) proto.Value {
	return func(args []string) proto.Value {
		if len(args) != 0 {
			return proto.ErrorValue("ERR wrong number of arguments for 'save' command")
		}
		if path == "" {
			return proto.ErrorValue("ERR no settings file configured")
		}

		if err := persistence.SaveSettings(path, s); err != nil {
			return proto.ErrorValue("ERR " + err.Error())
		}
		return proto.OKValue()
	}
}
