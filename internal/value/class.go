package value

import "slate/internal/container"

// Class owns a name, an instance-property map (the prototype), a static-
// property map, and an optional factory callable invoked on `Class(args…)`
// (spec §3.3). Grounded on the teacher's ClassObj (vmregister/value.go),
// generalized so that instance lookup walks instance -> class on miss,
// which the teacher's instance-field-only lookup never did.
type Class struct {
	refcountEmbed
	Name       string
	Instance   *container.Object[Value] // prototype: method/property defaults
	Static     *container.Object[Value]
	Factory    *Value // optional; nil means Class(args...) is an ArityError
	Superclass *Class  // nil for root classes

	// Fields names the positional constructor parameters a generated
	// factory assigns onto a fresh instance (spec §3.3's class declares
	// field names alongside methods; the language has no `this`
	// expression for a constructor body to assign through, so the
	// factory itself binds Class(args...) args to Fields by position).
	Fields []string
}

func NewClass(name string) *Class {
	c := &Class{
		Name:     name,
		Instance: container.NewObject[Value](Retain, Release),
		Static:   container.NewObject[Value](Retain, Release),
	}
	c.init()
	return c
}

func (c *Class) Retain() *Class { c.retain(); return c }

// Release drops one strong reference; at zero, its property maps are
// released too.
func (c *Class) Release() {
	if c.release() {
		c.Instance.Release()
		c.Static.Release()
		if c.Superclass != nil {
			c.Superclass.Release()
		}
		if c.Factory != nil {
			Release(*c.Factory)
		}
	}
}

// LookupInstance walks this class and its superclass chain for key,
// implementing spec §4.5's GET_PROPERTY resolution for instances whose
// own property map missed.
func (c *Class) LookupInstance(key *container.InternedKey) (Value, bool) {
	for cl := c; cl != nil; cl = cl.Superclass {
		if v, ok := cl.Instance.Get(key); ok {
			return v, true
		}
	}
	return Value{}, false
}

func (c *Class) LookupStatic(key *container.InternedKey) (Value, bool) {
	for cl := c; cl != nil; cl = cl.Superclass {
		if v, ok := cl.Static.Get(key); ok {
			return v, true
		}
	}
	return Value{}, false
}

// Instances of a class are plain Object values whose Value.Class field
// points back to the owning *Class (spec §3.3's "instance carries a
// back-pointer to its class value").
func NewInstance(class *Class) Value {
	v := Object(container.NewObject[Value](Retain, Release))
	v.Class = class
	return v
}
