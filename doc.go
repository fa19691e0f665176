// Package graze loads configuration files with caller-supplied parsers.
//
// The package owns no format and no schema. It reads a file, hands the bytes
// to a Deserializer and decides what to do when the file is missing:
//  1. LoadFromPath fails.
//  2. LoadOrDefault returns a default value.
//  3. LoadOrWriteDefault returns a default value after writing it to the file
//     with a Serializer.
//
// A file that exists but cannot be parsed is always an error; the default
// never replaces it. Errors are *LoadError values that match ErrIO,
// ErrDeserialize, ErrSerialize or ErrDefault with errors.Is.
//
// Ready-made deserializers and serializers for YAML, JSON, TOML and KDL live
// in the companion codec package.
//
// Typical usage:
//
//	c := codec.TOML[Cfg]()
//	cfg, err := graze.LoadOrWriteDefault(
//	    "Config.toml",
//	    c.Decode,
//	    func() Cfg { return Cfg{Message: "Hello, world!", Amount: 3} },
//	    c.Encode,
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
package graze
