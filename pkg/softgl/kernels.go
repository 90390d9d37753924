package softgl

// Names of the kernels every Device knows.
const (
	KernelCopy      = "copy"
	KernelInvert    = "invert"
	KernelAdd       = "add"
	KernelMultiply  = "multiply"
	KernelGrayscale = "grayscale"
	KernelSplit     = "split"
)

var builtins = map[string]Kernel{
	KernelCopy: func(f *Fragment) {
		f.Out[0] = f.Sample(0)
	},
	KernelInvert: func(f *Fragment) {
		c := f.Sample(0)
		f.Out[0] = Color{1 - c[0], 1 - c[1], 1 - c[2], c[3]}
	},
	KernelAdd: func(f *Fragment) {
		var sum Color
		for i := range f.NumInputs() {
			c := f.Sample(i)
			for ch := range sum {
				sum[ch] += c[ch]
			}
		}
		f.Out[0] = sum
	},
	KernelMultiply: func(f *Fragment) {
		prod := Color{1, 1, 1, 1}
		for i := range f.NumInputs() {
			c := f.Sample(i)
			for ch := range prod {
				prod[ch] *= c[ch]
			}
		}
		f.Out[0] = prod
	},
	KernelGrayscale: func(f *Fragment) {
		c := f.Sample(0)
		l := 0.299*c[0] + 0.587*c[1] + 0.114*c[2]
		f.Out[0] = Color{l, l, l, c[3]}
	},
	// split writes the input to every output.
	KernelSplit: func(f *Fragment) {
		c := f.Sample(0)
		for i := range f.Out {
			f.Out[i] = c
		}
	},
}
