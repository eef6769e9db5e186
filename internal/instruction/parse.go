package instruction

import (
	"strconv"
	"strings"
)

// keyword maps every accepted trace token to the Kind it produces and the
// number of body tokens it requires, mirroring the fixed grammar table.
type keyword struct {
	kind  Kind
	arity int
}

var keywords = map[string]keyword{
	"REQ":           {Request, 3},
	"REQUEST":       {Request, 3},
	"CON":           {Connect, 2},
	"CONNECT":       {Connect, 2},
	"DCN":           {Disconnect, 2},
	"DISCONNECT":    {Disconnect, 2},
	"ITERATION":     {SetIteration, 1},
	"REGISTER_NODE": {RegisterNode, 1},
	"GET_STATS":     {CollectStatistics, 0},
}

// Parse turns one whitespace-separated trace line into an Instruction.
// lineNo is used only to annotate ParseError.
func Parse(line string, lineNo int) (Instruction, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Instruction{}, errParse(lineNo, line, "empty line")
	}

	kw, ok := keywords[fields[0]]
	if !ok {
		return Instruction{}, errParse(lineNo, line, "unknown keyword "+fields[0])
	}

	body := fields[1:]
	if len(body) != kw.arity {
		return Instruction{}, errParse(lineNo, line, "wrong argument count")
	}

	switch kw.kind {
	case SetIteration:
		n, err := strconv.ParseInt(body[0], 10, 64)
		if err != nil {
			return Instruction{}, errParse(lineNo, line, "iteration is not an integer")
		}
		return Instruction{Kind: SetIteration, Iteration: n}, nil
	case Connect:
		return Instruction{Kind: Connect, UserID: body[0], NodeID: body[1]}, nil
	case Disconnect:
		return Instruction{Kind: Disconnect, UserID: body[0], NodeID: body[1]}, nil
	case Request:
		return Instruction{Kind: Request, UserID: body[0], NodeID: body[1], Identifier: body[2]}, nil
	case CollectStatistics:
		return Instruction{Kind: CollectStatistics}, nil
	case RegisterNode:
		return Instruction{Kind: RegisterNode, NodeID: body[0]}, nil
	default:
		return Instruction{}, errParse(lineNo, line, "unhandled keyword")
	}
}
