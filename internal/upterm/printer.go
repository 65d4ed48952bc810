// Copyright 2025 Upbound Inc.
// All rights reserved

// Package upterm contains helpers for working with the terminal, primarily
// printing output.
package upterm

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"

	"github.com/costinelmarin/meteor/internal/config"
)

// Printer describes interactions for working with the ObjectPrinter below.
type Printer interface {
	Print(obj any, fieldNames []string, extractFields func(any) []string) error
}

// The ObjectPrinter is intended to make it easy to print individual structs
// and lists of structs for the 'get' and 'list' commands. It can print as
// a human-readable table, or computer-readable (JSON or YAML).
type ObjectPrinter struct {
	Quiet  config.QuietFlag
	Pretty bool
	Format config.Format

	TablePrinter *pterm.TablePrinter
}

// DefaultObjPrinter is the default object printer.
//
//nolint:gochecknoglobals // Mirrors pterm's own default printers.
var DefaultObjPrinter = ObjectPrinter{
	Quiet:        false,
	Pretty:       true,
	Format:       config.FormatDefault,
	TablePrinter: pterm.DefaultTable.WithSeparator("   "),
}

// Print will print a single object or an array/slice of objects.
// When printing with default table output, it will only print a given set
// of fields. To specify those fields, the caller should provide the
// human-readable names for those fields (used for column headers) and a
// function that can be called on a single struct that returns those fields
// as strings. When printing JSON or YAML, this will print *all* fields,
// regardless of the list of fields.
func (p *ObjectPrinter) Print(obj any, fieldNames []string, extractFields func(any) []string) error {
	// If user specified quiet, skip printing entirely
	if p.Quiet {
		return nil
	}

	// Print the object with the appropriate formatting.
	switch p.Format {
	case config.FormatJSON:
		return printJSON(obj)
	case config.FormatYAML:
		return printYAML(obj)
	case config.FormatDefault:
		fallthrough
	default:
		return p.printDefault(obj, fieldNames, extractFields)
	}
}

func printJSON(obj any) error {
	js, err := json.MarshalIndent(obj, "", "    ")
	if err != nil {
		return err
	}
	_, err = fmt.Println(string(js)) //nolint:forbidigo // This is a printing library.
	return err
}

func printYAML(obj any) error {
	ys, err := yaml.Marshal(obj)
	if err != nil {
		return err
	}
	_, err = fmt.Println(string(ys)) //nolint:forbidigo // This is a printing library.
	return err
}

func (p *ObjectPrinter) printDefault(obj any, fieldNames []string, extractFields func(any) []string) error {
	t := reflect.TypeOf(obj)
	k := t.Kind()
	if k == reflect.Array || k == reflect.Slice {
		return p.printDefaultList(obj, fieldNames, extractFields)
	}
	return p.printDefaultObj(obj, fieldNames, extractFields)
}

func (p *ObjectPrinter) printDefaultList(obj any, fieldNames []string, extractFields func(any) []string) error {
	s := reflect.ValueOf(obj)
	l := s.Len()

	data := make([][]string, l+1)
	data[0] = fieldNames
	for i := range l {
		data[i+1] = extractFields(s.Index(i).Interface())
	}
	return p.TablePrinter.WithHasHeader().WithData(data).Render()
}

func (p *ObjectPrinter) printDefaultObj(obj any, fieldNames []string, extractFields func(any) []string) error {
	data := make([][]string, 2)
	data[0] = fieldNames
	data[1] = extractFields(obj)
	return p.TablePrinter.WithHasHeader().WithData(data).Render()
}

// NewNopObjectPrinter returns a Printer that does nothing.
func NewNopObjectPrinter() Printer { return nopObjectPrinter{} }

type nopObjectPrinter struct{}

// Print prints.
func (p nopObjectPrinter) Print(_ any, _ []string, _ func(any) []string) error {
	return nil
}
