package engine

const (
	cudaIndexURL = "https://download.pytorch.org/whl/cu128"
	pypiIndexURL = "https://pypi.org/simple"

	stableTSPackage = "stable-ts"
	whisperXPackage = "whisperx"

	cpuDevice       = "cpu"
	cudaDevice      = "cuda"
	cpuComputeType  = "float32"
	cudaComputeType = "float16"

	whisperXBatchSize   = "4"
	whisperXChunkSize   = "15"
	whisperXVADOnset    = "0.08"
	whisperXVADOffset   = "0.07"
	whisperXBeamSize    = "5"
	whisperXVADMethod   = "silero"
	whisperXSegmentRes  = "sentence"
	whisperXTemperature = "0.0"

	transcriptFileName = "transcript.json"
	audioFileName      = "audio.wav"
)
