// Package typeid provides typed, prefixed identifiers such as
//
//	user_01h2xcejqtf2nbrexx3vqjhp41
//
// An identifier is a lowercase prefix naming the entity kind, an underscore,
// and a fixed-length base32 rendering of a fixed-width payload (see package
// codec). The prefix and width belong to a kind, declared as a Go type:
//
//	type user struct{ typeid.Width16 }
//
//	func (user) Prefix() string { return "user" }
//
//	type UserID = typeid.ID[user]
//
// typeid.ID[user] and typeid.ID[order] are distinct types, so one cannot be
// passed where the other is expected. At runtime the text form carries only
// the prefix; the default Registry makes sure every prefix belongs to a
// single kind type.
//
// # Creating and parsing
//
//	id, err := typeid.New[user]()          // random payload
//	id, err := typeid.Parse[user](s)       // strict, canonical text only
//	id, err := typeid.FromBytes[user](b)   // payload read back from storage
//
// Parse errors are *ParseError values wrapping one of ErrSeparatorMissing,
// ErrPrefixMismatch, a prefix.ErrInvalid error or a codec.ErrInvalidPayload
// error. Parsing never panics on untrusted input.
//
// # Serialization
//
// ID implements encoding.TextMarshaler and encoding.BinaryMarshaler, so JSON,
// YAML and form binding see a string while binary encodings see only the
// payload bytes. Relational storage lives in package database.
//
// # Runtime kinds
//
// Kinds that are only known at runtime are described by a Spec and added to
// a Registry; Registry.Parse returns an Any, which As narrows to an ID.
package typeid
