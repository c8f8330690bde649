package dsp

// DecimTaps is the halfband decimation filter used throughout the IQ
// decimation cascade and the audio post-chain's three halfband stages.
// GNU Radio Filter Design Tool, FIR, Low Pass, Kaiser Window.
// Sample rate: 1488375. End of pass band: 372094. Start of stop band:
// 530000. Stop band attenuation: 40dB.
// Reproduced verbatim from original_source/src/fm_audio.c.
var DecimTaps = []float32{
	0.6062333583831787,
	-0.13481467962265015,
	0.032919470220804214,
	-0.00410953676328063,
}

// FMLowpassTaps is the order-8 Chebyshev low-pass at 15kHz for the mono
// audio baseband at Fi_a=186047. http://www-users.cs.york.ac.uk/~fisher/mkfilter
// IIR, Low Pass, Chebyshev, Ripple: -0.1, Order: 8, Sample Rate: 186047,
// Corner: 15000. Reproduced verbatim from original_source/src/fm_audio.c.
var FMLowpassTaps = IIRTaps{
	Gain: 1.670891391e6,
	ATaps: []float32{
		-0.4271335192,
		3.5462797232,
		-13.1268451090,
		28.3001746570,
		-38.8810034930,
		34.8782976620,
		-19.9663956220,
		6.6764724893,
	},
	BTaps: []float32{
		1, 8, 28, 56, 70, 56, 28, 8, 1,
	},
}

// FMBandstopTaps is the pilot-rejection band-stop (15-23kHz) at the same
// Fi_a=186047. IIR, Band Stop, Chebyshev, Ripple: -0.1, Order: 2,
// Sample Rate: 186047, Corner: 15000, 23000.
var FMBandstopTaps = IIRTaps{
	Gain: 1.102869724,
	ATaps: []float32{
		-0.8235593684,
		2.7895724264,
		-4.1739342607,
		3.0748641139,
	},
	BTaps: []float32{
		1.0,
		-3.2338547532,
		4.6144541412,
		-3.2338547532,
		1.0,
	},
}

// FMDeemphTaps is the one-pole Butterworth de-emphasis at 2122Hz for
// Fi_a=46512. IIR, Low Pass, Butterworth, Order: 1, Sample Rate: 46512,
// Corner: 2122.
var FMDeemphTaps = IIRTaps{
	Gain:  7.929175225,
	ATaps: []float32{0.7477669564},
	BTaps: []float32{1.0, 1.0},
}
