package command

import (
	"github.com/mwheeler/sessiondb/internal/proto"
)

func PingCommand(args []string) proto.Value {
	if len(args) == 0 {
		return proto.PongValue()
	}

	if len(args) > 1 {
		return proto.ErrorValue("ERR wrong number of arguments for 'ping' command")
	}

	return proto.BulkStringValue(args[0])
}
