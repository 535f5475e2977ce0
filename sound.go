package lametric

import (
	"encoding/json"
	"errors"
	"fmt"
)

// SoundCategory groups the device's built-in sounds.
type SoundCategory string

const (
	CategoryNotifications SoundCategory = "notifications"
	CategoryAlarms        SoundCategory = "alarms"
)

// NotificationSound is a built-in sound of the notifications category.
type NotificationSound string

const (
	SoundBicycle       NotificationSound = "bicycle"
	SoundCar           NotificationSound = "car"
	SoundCash          NotificationSound = "cash"
	SoundCat           NotificationSound = "cat"
	SoundDog           NotificationSound = "dog"
	SoundDog2          NotificationSound = "dog2"
	SoundEnergy        NotificationSound = "energy"
	SoundKnockKnock    NotificationSound = "knock-knock"
	SoundLetterEmail   NotificationSound = "letter_email"
	SoundLose1         NotificationSound = "lose1"
	SoundLose2         NotificationSound = "lose2"
	SoundNegative1     NotificationSound = "negative1"
	SoundNegative2     NotificationSound = "negative2"
	SoundNegative3     NotificationSound = "negative3"
	SoundNegative4     NotificationSound = "negative4"
	SoundNegative5     NotificationSound = "negative5"
	SoundNotification  NotificationSound = "notification"
	SoundNotification2 NotificationSound = "notification2"
	SoundNotification3 NotificationSound = "notification3"
	SoundNotification4 NotificationSound = "notification4"
	SoundOpenDoor      NotificationSound = "open_door"
	SoundPositive1     NotificationSound = "positive1"
	SoundPositive2     NotificationSound = "positive2"
	SoundPositive3     NotificationSound = "positive3"
	SoundPositive4     NotificationSound = "positive4"
	SoundPositive5     NotificationSound = "positive5"
	SoundPositive6     NotificationSound = "positive6"
	SoundStatistic     NotificationSound = "statistic"
	SoundThunder       NotificationSound = "thunder"
	SoundWater1        NotificationSound = "water1"
	SoundWater2        NotificationSound = "water2"
	SoundWin           NotificationSound = "win"
	SoundWin2          NotificationSound = "win2"
	SoundWind          NotificationSound = "wind"
	SoundWindShort     NotificationSound = "wind_short"
)

// AlarmSound is a built-in sound of the alarms category.
type AlarmSound string

const (
	Alarm1  AlarmSound = "alarm1"
	Alarm2  AlarmSound = "alarm2"
	Alarm3  AlarmSound = "alarm3"
	Alarm4  AlarmSound = "alarm4"
	Alarm5  AlarmSound = "alarm5"
	Alarm6  AlarmSound = "alarm6"
	Alarm7  AlarmSound = "alarm7"
	Alarm8  AlarmSound = "alarm8"
	Alarm9  AlarmSound = "alarm9"
	Alarm10 AlarmSound = "alarm10"
	Alarm11 AlarmSound = "alarm11"
	Alarm12 AlarmSound = "alarm12"
	Alarm13 AlarmSound = "alarm13"
)

// NotificationSounds lists every known notification sound id.
var NotificationSounds = []NotificationSound{
	SoundBicycle, SoundCar, SoundCash, SoundCat, SoundDog, SoundDog2, SoundEnergy,
	SoundKnockKnock, SoundLetterEmail, SoundLose1, SoundLose2,
	SoundNegative1, SoundNegative2, SoundNegative3, SoundNegative4, SoundNegative5,
	SoundNotification, SoundNotification2, SoundNotification3, SoundNotification4,
	SoundOpenDoor, SoundPositive1, SoundPositive2, SoundPositive3, SoundPositive4,
	SoundPositive5, SoundPositive6, SoundStatistic, SoundThunder, SoundWater1,
	SoundWater2, SoundWin, SoundWin2, SoundWind, SoundWindShort,
}

// AlarmSounds lists every known alarm sound id.
var AlarmSounds = []AlarmSound{
	Alarm1, Alarm2, Alarm3, Alarm4, Alarm5, Alarm6, Alarm7,
	Alarm8, Alarm9, Alarm10, Alarm11, Alarm12, Alarm13,
}

// Valid reports whether s is a known notification sound.
func (s NotificationSound) Valid() bool {
	for _, known := range NotificationSounds {
		if s == known {
			return true
		}
	}
	return false
}

// Valid reports whether s is a known alarm sound.
func (s AlarmSound) Valid() bool {
	for _, known := range AlarmSounds {
		if s == known {
			return true
		}
	}
	return false
}

// AudioType is the encoding of a custom sound.
type AudioType string

// AudioMP3 is the only format the device streams.
const AudioMP3 AudioType = "mp3"

// UnknownSoundError reports a built-in sound id outside its category's set.
type UnknownSoundError struct {
	Category SoundCategory
	ID       string
}

func (e *UnknownSoundError) Error() string {
	if e.Category == CategoryAlarms {
		return fmt.Sprintf("unknown alarm sound: %s", e.ID)
	}
	return fmt.Sprintf("unknown notification sound: %s", e.ID)
}

// BuiltInSound references one of the device's own sounds. It is the
// fallback of a custom sound.
type BuiltInSound struct {
	category SoundCategory
	id       string
}

// BuiltInNotification references a notification sound.
func BuiltInNotification(id NotificationSound) BuiltInSound {
	return BuiltInSound{category: CategoryNotifications, id: string(id)}
}

// BuiltInAlarm references an alarm sound.
func BuiltInAlarm(id AlarmSound) BuiltInSound {
	return BuiltInSound{category: CategoryAlarms, id: string(id)}
}

// Category returns the sound category.
func (s BuiltInSound) Category() SoundCategory { return s.category }

// ID returns the sound id within its category.
func (s BuiltInSound) ID() string { return s.id }

type builtInWire struct {
	Category *SoundCategory `json:"category"`
	ID       *string        `json:"id"`
}

// MarshalJSON implements json.Marshaler.
func (s BuiltInSound) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Category SoundCategory `json:"category"`
		ID       string        `json:"id"`
	}{s.category, s.id})
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *BuiltInSound) UnmarshalJSON(data []byte) error {
	var w builtInWire
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("decode built-in sound: %w", err)
	}
	resolved, err := resolveBuiltIn(w.Category, w.ID)
	if err != nil {
		return err
	}
	*s = resolved
	return nil
}

func resolveBuiltIn(category *SoundCategory, id *string) (BuiltInSound, error) {
	if category == nil {
		return BuiltInSound{}, errors.New("sound category is required")
	}
	if id == nil {
		return BuiltInSound{}, errors.New("sound id is required")
	}
	switch *category {
	case CategoryNotifications:
		if !NotificationSound(*id).Valid() {
			return BuiltInSound{}, &UnknownSoundError{Category: *category, ID: *id}
		}
	case CategoryAlarms:
		if !AlarmSound(*id).Valid() {
			return BuiltInSound{}, &UnknownSoundError{Category: *category, ID: *id}
		}
	default:
		return BuiltInSound{}, fmt.Errorf("unknown sound category: %s", *category)
	}
	return BuiltInSound{category: *category, id: *id}, nil
}

// SoundKind identifies the shape of a Sound.
type SoundKind int

const (
	SoundKindNotification SoundKind = iota
	SoundKindAlarm
	SoundKindCustom
)

// Sound is played with a notification: a built-in notification sound, a
// built-in alarm, or a custom MP3 with a built-in fallback.
type Sound struct {
	kind      SoundKind
	builtIn   BuiltInSound
	url       string
	audioType AudioType
	fallback  BuiltInSound
	repeat    int
}

// NotificationSoundOf plays a built-in notification sound. A repeat below 1
// is stored as 1.
func NotificationSoundOf(id NotificationSound, repeat int) Sound {
	return Sound{kind: SoundKindNotification, builtIn: BuiltInNotification(id), repeat: atLeastOne(repeat)}
}

// AlarmSoundOf plays a built-in alarm sound.
func AlarmSoundOf(id AlarmSound, repeat int) Sound {
	return Sound{kind: SoundKindAlarm, builtIn: BuiltInAlarm(id), repeat: atLeastOne(repeat)}
}

// CustomSound streams an MP3 from url, falling back to a built-in sound when
// the device cannot fetch it.
func CustomSound(url string, fallback BuiltInSound, repeat int) Sound {
	return Sound{kind: SoundKindCustom, url: url, audioType: AudioMP3, fallback: fallback, repeat: atLeastOne(repeat)}
}

// Kind reports the sound shape.
func (s Sound) Kind() SoundKind { return s.kind }

// BuiltIn returns the built-in sound of a notification or alarm sound.
func (s Sound) BuiltIn() (BuiltInSound, bool) { return s.builtIn, s.kind != SoundKindCustom }

// URL returns the stream location of a custom sound.
func (s Sound) URL() (string, bool) { return s.url, s.kind == SoundKindCustom }

// AudioType returns the format of a custom sound.
func (s Sound) AudioType() AudioType { return s.audioType }

// Fallback returns the built-in fallback of a custom sound.
func (s Sound) Fallback() (BuiltInSound, bool) { return s.fallback, s.kind == SoundKindCustom }

// RepeatCount returns how many times the sound plays.
func (s Sound) RepeatCount() int { return s.repeat }

type soundWire struct {
	Category *SoundCategory  `json:"category,omitempty"`
	ID       *string         `json:"id,omitempty"`
	URL      *string         `json:"url,omitempty"`
	Type     *AudioType      `json:"type,omitempty"`
	Fallback json.RawMessage `json:"fallback,omitempty"`
	Repeat   *int            `json:"repeat,omitempty"`
}

// classifySound picks custom when a url is present, built-in otherwise.
func classifySound(w soundWire) SoundKind {
	if w.URL != nil {
		return SoundKindCustom
	}
	if w.Category != nil && *w.Category == CategoryAlarms {
		return SoundKindAlarm
	}
	return SoundKindNotification
}

// MarshalJSON implements json.Marshaler.
func (s Sound) MarshalJSON() ([]byte, error) {
	repeat := atLeastOne(s.repeat)
	if s.kind == SoundKindCustom {
		audioType := s.audioType
		if audioType == "" {
			audioType = AudioMP3
		}
		return json.Marshal(struct {
			URL      string       `json:"url"`
			Type     AudioType    `json:"type"`
			Fallback BuiltInSound `json:"fallback"`
			Repeat   int          `json:"repeat"`
		}{s.url, audioType, s.fallback, repeat})
	}
	return json.Marshal(struct {
		Category SoundCategory `json:"category"`
		ID       string        `json:"id"`
		Repeat   int           `json:"repeat"`
	}{s.builtIn.category, s.builtIn.id, repeat})
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Sound) UnmarshalJSON(data []byte) error {
	var w soundWire
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("decode sound: %w", err)
	}
	repeat := 1
	if w.Repeat != nil {
		repeat = *w.Repeat
	}

	kind := classifySound(w)
	if kind == SoundKindCustom {
		if len(w.Fallback) == 0 || isNull(w.Fallback) {
			return errors.New("custom sound requires a fallback")
		}
		var fallback BuiltInSound
		if err := json.Unmarshal(w.Fallback, &fallback); err != nil {
			return fmt.Errorf("decode sound fallback: %w", err)
		}
		audioType := AudioMP3
		if w.Type != nil {
			if *w.Type != AudioMP3 {
				return fmt.Errorf("unsupported audio type: %s", *w.Type)
			}
			audioType = *w.Type
		}
		*s = Sound{kind: kind, url: *w.URL, audioType: audioType, fallback: fallback, repeat: repeat}
		return nil
	}

	builtIn, err := resolveBuiltIn(w.Category, w.ID)
	if err != nil {
		return err
	}
	*s = Sound{kind: kind, builtIn: builtIn, repeat: repeat}
	return nil
}

func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
