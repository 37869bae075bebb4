// Package tts provides text-to-speech services for converting text to audio.
//
// Service is the simple form used by voice pipelines: text in, audio stream
// out. SpeechModel is the model-layer form: it returns a SpeechResult envelope
// with the audio bytes, warnings, request echo and response metadata.
//
// # Yandex SpeechKit
//
// YandexService implements both against the SpeechKit v1 synthesize endpoint.
// Two wire contracts are supported and selected per service:
//
//   - TransportForm sends the parameters as an x-www-form-urlencoded body
//     and sanitizes plain text by default.
//   - TransportQuery sends the parameters in the query string with no body.
//
// Usage:
//
//	cred, err := credentials.NewYandexCloud(os.Getenv("FOLDER_ID"), os.Getenv("SK"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	service := tts.NewYandex(cred)
//	result, err := service.DoGenerate(ctx, tts.SpeechCallOptions{
//	    Input: tts.TextInput("Привет, мир"),
//	    Options: tts.SynthesisOptions{
//	        Voice:   "jane",
//	        Emotion: tts.EmotionGood,
//	        Format:  tts.FormatOggOpus.Name,
//	    },
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("hello.ogg", result.Audio, 0o644)
//
// Voices and their emotions come from a VoiceCatalog. FullCatalog is the
// default; BasicCatalog is the shorter list some deployments still use.
package tts
