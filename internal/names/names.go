/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package names provides the pool of display names handed to participants.
package names

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"slices"
	"strings"
)

//go:embed names.txt
var builtin string

var ErrEmpty = errors.New("name pool is empty")

// Pool is an immutable list of display names shared by every room.
type Pool struct {
	names []string
}

// New builds a pool from names, dropping blanks and duplicates.
func New(names []string) *Pool {
	seen := make(map[string]struct{}, len(names))
	p := &Pool{names: make([]string, 0, len(names))}

	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		if _, ok := seen[name]; ok {
			continue
		}

		seen[name] = struct{}{}
		p.names = append(p.names, name)
	}

	return p
}

// Parse reads one name per line.
func Parse(r io.Reader) (*Pool, error) {
	var names []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		names = append(names, scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	p := New(names)
	if p.Len() == 0 {
		return nil, ErrEmpty
	}

	return p, nil
}

// Load reads a word list file, one name per line.
func Load(path string) (*Pool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	p, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return p, nil
}

// Default returns the embedded name list.
func Default() *Pool {
	p, err := Parse(strings.NewReader(builtin))
	if err != nil {
		panic("names: embedded list is unusable: " + err.Error())
	}

	return p
}

func (p *Pool) Len() int {
	return len(p.names)
}

// Shuffle returns a fresh shuffled copy of the pool for one room.
func (p *Pool) Shuffle() []string {
	out := slices.Clone(p.names)

	rand.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})

	return out
}

// Pop removes and returns the last name of a room's working copy.
func (p *Pool) Pop(pool *[]string) (string, error) {
	n := len(*pool)
	if n == 0 {
		return "", ErrEmpty
	}

	name := (*pool)[n-1]
	*pool = (*pool)[:n-1]

	return name, nil
}
