// Package stt provides speech-to-text services for converting audio to text.
//
// Two interfaces are defined. Service is the simple form used by voice
// pipelines: bytes in, text out. TranscriptionModel is the full form used by
// the generic model layer: it returns a TranscriptionResult envelope with
// warnings, request echo and response metadata.
//
// # Yandex SpeechKit
//
// YandexService implements both against the SpeechKit v1 recognize endpoint:
//
//	cred, err := credentials.NewYandexCloud(os.Getenv("FOLDER_ID"), os.Getenv("SK"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	service := stt.NewYandex(cred)
//	result, err := service.DoGenerate(ctx, stt.TranscriptionCallOptions{
//	    Audio: audioData,
//	    Options: stt.RecognitionOptions{
//	        Lang:            stt.LanguageAuto,
//	        Format:          stt.FormatOggOpus,
//	        SampleRateHertz: 48000,
//	    },
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("User said:", result.Text)
//
// Each call is a single POST. Nothing is retried; cancel the context to
// abort an in-flight request.
package stt
