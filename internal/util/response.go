package util

type Envelope map[string]any

func Error(message string) Envelope {
	return Envelope{"message": message}
}

func Data(value any) Envelope {
	return Envelope{"data": value}
}
