// Package loader reads trained model weights from SafeTensors files into
// state dicts that nn.Sequential.LoadStateDict accepts.
//
// SafeTensors format:
//
//	[8 bytes: header_size (uint64 LE)]
//	[header_size bytes: JSON header]
//	[tensor data: raw little-endian bytes]
//
// The JSON header maps tensor names to dtype, shape and data offsets
// relative to the start of the data section, plus an optional
// "__metadata__" string map.
//
// Example:
//
//	state, meta, err := loader.LoadFile("lenet.safetensors")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := model.LoadStateDict(state); err != nil {
//	    log.Fatal(err)
//	}
package loader
