package model

import (
	"fmt"
	"time"

	"github.com/arloliu/onx/geometry"
)

// Notes is the free text a user attaches to a document.
type Notes struct {
	Text    string `cbor:"1,keyasint"`
	Visible bool   `cbor:"2,keyasint"`
	HTML    bool   `cbor:"3,keyasint"`
}

// Application names the program that created the document.
type Application struct {
	Name    string `cbor:"1,keyasint"`
	URL     string `cbor:"2,keyasint"`
	Details string `cbor:"3,keyasint"`
}

// Revision records who created and last edited the document, and when.
type Revision struct {
	CreatedBy    string    `cbor:"1,keyasint"`
	LastEditedBy string    `cbor:"2,keyasint"`
	Created      time.Time `cbor:"3,keyasint"`
	LastEdited   time.Time `cbor:"4,keyasint"`
	Count        int       `cbor:"5,keyasint"`
}

// Properties are the document-level descriptive records. They are written
// first so notes can be read without touching the tables.
type Properties struct {
	Notes       Notes
	Application Application
	Revision    Revision
}

// UnitSystem is the length unit of model coordinates.
type UnitSystem uint8

const (
	UnitsNone UnitSystem = iota
	UnitsMillimeters
	UnitsCentimeters
	UnitsMeters
	UnitsInches
	UnitsFeet
)

func (u UnitSystem) String() string {
	switch u {
	case UnitsNone:
		return "none"
	case UnitsMillimeters:
		return "millimeters"
	case UnitsCentimeters:
		return "centimeters"
	case UnitsMeters:
		return "meters"
	case UnitsInches:
		return "inches"
	case UnitsFeet:
		return "feet"
	default:
		return fmt.Sprintf("UnitSystem(%d)", uint8(u))
	}
}

// Settings are the document modeling settings.
type Settings struct {
	ModelUnits        UnitSystem       `cbor:"1,keyasint"`
	AbsoluteTolerance float64          `cbor:"2,keyasint"`
	AngleTolerance    float64          `cbor:"3,keyasint"`
	RelativeTolerance float64          `cbor:"4,keyasint"`
	ModelBasePoint    geometry.Point3d `cbor:"5,keyasint"`
	ModelURL          string           `cbor:"6,keyasint"`
}

// DefaultSettings returns millimeter units with the usual tolerances.
func DefaultSettings() Settings {
	return Settings{
		ModelUnits:        UnitsMillimeters,
		AbsoluteTolerance: 0.001,
		AngleTolerance:    0.017453292519943295, // one degree
		RelativeTolerance: 0.01,
	}
}
