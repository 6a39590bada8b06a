package smbios

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	headerLength    = 4
	typeEndOfTable  = 127
	defaultTableCap = 64
)

var (
	ErrInvalidOffset      = errors.New("smbios: invalid offset")
	ErrInvalidTableLength = errors.New("smbios: invalid table length")
	ErrInvalidTableType   = errors.New("smbios: invalid table type")
)

// Header precedes every structure in the table.
type Header struct {
	Type   uint8
	Length uint8
	Handle uint16
}

// Table is one raw structure: the formatted area after the header and the
// trailing string set.
type Table struct {
	Header
	FormattedArea []byte
	StringArea    []string
}

// ParseTables decodes structures from r until the end-of-table marker or EOF.
func ParseTables(r io.Reader) ([]*Table, error) {
	tables := make([]*Table, 0, defaultTableCap)
	br := bufio.NewReader(r)

	for {
		if _, err := br.Peek(1); err != nil {
			if errors.Is(err, io.EOF) {
				return tables, nil
			}
			return nil, fmt.Errorf("peek table: %w", err)
		}

		t, err := parseTable(br)
		if err != nil {
			return nil, fmt.Errorf("parse table %d: %w", len(tables), err)
		}
		tables = append(tables, t)

		if t.Type == typeEndOfTable {
			return tables, nil
		}
	}
}

func parseTable(br *bufio.Reader) (*Table, error) {
	var h Header
	if err := binary.Read(io.LimitReader(br, headerLength), binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}

	if int(h.Length) < headerLength {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTableLength, h.Length)
	}

	fa := make([]byte, int(h.Length)-headerLength)
	if _, err := io.ReadFull(br, fa); err != nil {
		return nil, fmt.Errorf("formatted area: %w", err)
	}

	sa, err := readStringArea(br)
	if err != nil {
		return nil, err
	}

	return &Table{Header: h, FormattedArea: fa, StringArea: sa}, nil
}

// readStringArea reads NUL terminated strings up to the double NUL.
func readStringArea(br *bufio.Reader) ([]string, error) {
	peek, err := br.Peek(2)
	if err != nil {
		return nil, fmt.Errorf("peek string area: %w", err)
	}

	if peek[0] == 0 && peek[1] == 0 {
		_, _ = br.Discard(2)
		return nil, nil
	}

	var ss []string
	for {
		b, err := br.ReadBytes(0)
		if err != nil {
			return nil, fmt.Errorf("read string: %w", err)
		}
		ss = append(ss, string(b[:len(b)-1]))

		p, err := br.Peek(1)
		if err != nil {
			return nil, fmt.Errorf("peek string terminator: %w", err)
		}
		if p[0] == 0 {
			_, _ = br.Discard(1)
			return ss, nil
		}
	}
}

func (t *Table) checkBounds(offset, length int) error {
	if offset < 0 || length < 0 || offset+length > len(t.FormattedArea) {
		return fmt.Errorf("%w: offset=%d length=%d available=%d", ErrInvalidOffset, offset, length, len(t.FormattedArea))
	}
	return nil
}

// has reports whether the formatted area covers length bytes at offset.
// Older firmware writes shorter structures.
func (t *Table) has(offset, length int) bool {
	return t.checkBounds(offset, length) == nil
}

func (t *Table) GetStringAt(offset int) (string, error) {
	if err := t.checkBounds(offset, 1); err != nil {
		return "", err
	}

	index := int(t.FormattedArea[offset])
	switch {
	case index == 0:
		return "", nil
	case index > len(t.StringArea):
		return "", fmt.Errorf("%w: string index %d of %d", ErrInvalidOffset, index, len(t.StringArea))
	default:
		return t.StringArea[index-1], nil
	}
}

func (t *Table) GetByteAt(offset int) (uint8, error) {
	if err := t.checkBounds(offset, 1); err != nil {
		return 0, err
	}
	return t.FormattedArea[offset], nil
}

func (t *Table) GetWordAt(offset int) (uint16, error) {
	if err := t.checkBounds(offset, 2); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(t.FormattedArea[offset:]), nil
}

func (t *Table) GetDwordAt(offset int) (uint32, error) {
	if err := t.checkBounds(offset, 4); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(t.FormattedArea[offset:]), nil
}
