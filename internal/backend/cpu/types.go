package cpu

// float is the set of element types the compute kernels support.
type float interface {
	~float32 | ~float64
}
