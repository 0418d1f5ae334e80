package proto

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

var (
	ErrEmptyCommand      = errors.New("empty command")
	ErrUnterminatedQuote = errors.New("unterminated quote")
	ErrInvalidEscape     = errors.New("invalid escape sequence")
)

// Command is one parsed client request: a command name and its arguments.
type Command struct {
	Name string
	Args []string
}

// Parser reads inline commands, one per line. Fields are separated by
// spaces; double quotes group a field, with \" and \\ escapes inside.
type Parser struct {
	reader *bufio.Reader
}

func NewParser(r io.Reader) *Parser {
	return &Parser{
		reader: bufio.NewReader(r),
	}
}

// Parse returns the next command, skipping blank lines. io.EOF is returned
// unwrapped when the connection closes between commands.
func (p *Parser) Parse() (Command, error) {
	for {
		line, err := p.reader.ReadString('\n')
		if err != nil {
			if err == io.EOF && strings.TrimSpace(line) != "" {
				return p.parseLine(strings.TrimRight(line, "\r\n"))
			}
			return Command{}, err
		}

		line = strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}
		return p.parseLine(line)
	}
}

func (p *Parser) parseLine(line string) (Command, error) {
	fields, err := splitFields(line)
	if err != nil {
		return Command{}, err
	}
	if len(fields) == 0 {
		return Command{}, ErrEmptyCommand
	}
	return Command{
		Name: strings.ToUpper(fields[0]),
		Args: fields[1:],
	}, nil
}

func splitFields(line string) ([]string, error) {
	var fields []string
	var sb strings.Builder
	inField := false
	inQuote := false

	for i := 0; i < len(line); i++ {
		ch := line[i]

		switch {
		case inQuote:
			switch ch {
			case '\\':
				if i+1 >= len(line) {
					return nil, ErrInvalidEscape
				}
				i++
				switch line[i] {
				case '"':
					sb.WriteByte('"')
				case '\\':
					sb.WriteByte('\\')
				default:
					return nil, ErrInvalidEscape
				}
			case '"':
				inQuote = false
			default:
				sb.WriteByte(ch)
			}

		case ch == '"':
			inQuote = true
			inField = true

		case ch == ' ' || ch == '\t':
			if inField {
				fields = append(fields, sb.String())
				sb.Reset()
				inField = false
			}

		default:
			inField = true
			sb.WriteByte(ch)
		}
	}

	if inQuote {
		return nil, ErrUnterminatedQuote
	}
	if inField {
		fields = append(fields, sb.String())
	}
	return fields, nil
}
