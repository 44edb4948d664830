// Package conversion converts ingredient quantities between volume, weight and
// count units, bridging volume and weight through ingredient densities.
package conversion

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownUnit indicates a unit name absent from every unit table.
var ErrUnknownUnit = errors.New("unknown unit")

// ErrIncompatibleUnits indicates two known units that cannot be converted into each other.
var ErrIncompatibleUnits = errors.New("incompatible units")

// Category is the measurement system a unit belongs to.
type Category int

const (
	CategoryVolume Category = iota + 1
	CategoryWeight
	CategoryCount
)

func (c Category) String() string {
	switch c {
	case CategoryVolume:
		return "volume"
	case CategoryWeight:
		return "weight"
	case CategoryCount:
		return "count"
	default:
		return "unknown"
	}
}

// Unit is a recognized unit with its multiplier to the category base
// (milliliters, grams or pieces).
type Unit struct {
	Name     string
	Category Category
	ToBase   float64
}

type unitDef struct {
	category Category
	toBase   float64
}

var unitTable = map[string]unitDef{
	// volume (base = ml)
	"ml":          {CategoryVolume, 1},
	"milliliter":  {CategoryVolume, 1},
	"milliliters": {CategoryVolume, 1},
	"millilitre":  {CategoryVolume, 1},
	"millilitres": {CategoryVolume, 1},
	"cl":          {CategoryVolume, 10},
	"centiliter":  {CategoryVolume, 10},
	"dl":          {CategoryVolume, 100},
	"deciliter":   {CategoryVolume, 100},
	"l":           {CategoryVolume, 1000},
	"liter":       {CategoryVolume, 1000},
	"liters":      {CategoryVolume, 1000},
	"litre":       {CategoryVolume, 1000},
	"litres":      {CategoryVolume, 1000},
	"tsp":         {CategoryVolume, 4.92892},
	"teaspoon":    {CategoryVolume, 4.92892},
	"teaspoons":   {CategoryVolume, 4.92892},
	"tbsp":        {CategoryVolume, 14.7868},
	"tablespoon":  {CategoryVolume, 14.7868},
	"tablespoons": {CategoryVolume, 14.7868},
	"fl oz":       {CategoryVolume, 29.5735},
	"floz":        {CategoryVolume, 29.5735},
	"fluid ounce": {CategoryVolume, 29.5735},
	"cup":         {CategoryVolume, 240},
	"cups":        {CategoryVolume, 240},
	"pint":        {CategoryVolume, 473.176},
	"pints":       {CategoryVolume, 473.176},
	"pt":          {CategoryVolume, 473.176},
	"quart":       {CategoryVolume, 946.353},
	"quarts":      {CategoryVolume, 946.353},
	"qt":          {CategoryVolume, 946.353},
	"gallon":      {CategoryVolume, 3785.41},
	"gallons":     {CategoryVolume, 3785.41},
	"gal":         {CategoryVolume, 3785.41},

	// weight (base = g)
	"mg":         {CategoryWeight, 0.001},
	"milligram":  {CategoryWeight, 0.001},
	"milligrams": {CategoryWeight, 0.001},
	"g":          {CategoryWeight, 1},
	"gram":       {CategoryWeight, 1},
	"grams":      {CategoryWeight, 1},
	"gr":         {CategoryWeight, 1},
	"kg":         {CategoryWeight, 1000},
	"kilogram":   {CategoryWeight, 1000},
	"kilograms":  {CategoryWeight, 1000},
	"kilo":       {CategoryWeight, 1000},
	"oz":         {CategoryWeight, 28.3495},
	"ounce":      {CategoryWeight, 28.3495},
	"ounces":     {CategoryWeight, 28.3495},
	"lb":         {CategoryWeight, 453.592},
	"lbs":        {CategoryWeight, 453.592},
	"pound":      {CategoryWeight, 453.592},
	"pounds":     {CategoryWeight, 453.592},

	// count (base = piece)
	"each":   {CategoryCount, 1},
	"ea":     {CategoryCount, 1},
	"pc":     {CategoryCount, 1},
	"pcs":    {CategoryCount, 1},
	"piece":  {CategoryCount, 1},
	"pieces": {CategoryCount, 1},
	"unit":   {CategoryCount, 1},
	"units":  {CategoryCount, 1},
	"item":   {CategoryCount, 1},
	"items":  {CategoryCount, 1},
	"dozen":  {CategoryCount, 12},
	"dz":     {CategoryCount, 12},
}

// normalize lower-cases, trims and collapses inner whitespace.
func normalize(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// LookupUnit resolves a unit name or synonym.
func LookupUnit(name string) (Unit, bool) {
	key := normalize(name)
	def, ok := unitTable[key]
	if !ok {
		return Unit{}, false
	}
	return Unit{Name: key, Category: def.category, ToBase: def.toBase}, true
}

// ParseUnit is LookupUnit returning ErrUnknownUnit for unrecognized names.
func ParseUnit(name string) (Unit, error) {
	unit, ok := LookupUnit(name)
	if !ok {
		return Unit{}, fmt.Errorf("%w: %q", ErrUnknownUnit, name)
	}
	return unit, nil
}

// SameUnit reports whether two unit strings are equal ignoring case and whitespace.
func SameUnit(a, b string) bool {
	return normalize(a) == normalize(b)
}
