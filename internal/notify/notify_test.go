package notify

import (
	"image"
	"os"
	"testing"

	"github.com/example/photomark/internal/platform"
)

type posted struct {
	title, body string
	opts        platform.Options
	iconExisted bool
}

func recorder(n *Notifier) *[]posted {
	var got []posted
	n.post = func(title, body string, opts platform.Options) error {
		_, err := os.Stat(opts.IconPath)
		got = append(got, posted{title, body, opts, opts.IconPath != "" && err == nil})
		return nil
	}
	return &got
}

func TestDisabledEventsStaySilent(t *testing.T) {
	n := New(DefaultPreferences())
	got := recorder(n)
	n.Send("hi", nil)
	n.Copy("")
	if len(*got) != 0 {
		t.Fatalf("posted %d notifications while disabled", len(*got))
	}
	var nilNotifier *Notifier
	nilNotifier.Save("x")
}

func TestSendIncludesCaptionAndPreview(t *testing.T) {
	n := New(DefaultPreferences())
	n.Enable(EventSend, true)
	got := recorder(n)
	n.Send("  look  ", image.NewRGBA(image.Rect(0, 0, 4, 4)))
	if len(*got) != 1 {
		t.Fatalf("posted %d notifications", len(*got))
	}
	p := (*got)[0]
	if p.title != platform.AppName || p.body != `Sent "look"` {
		t.Fatalf("unexpected notification %+v", p)
	}
	if !p.iconExisted {
		t.Fatal("preview icon missing while posting")
	}
	if _, err := os.Stat(p.opts.IconPath); !os.IsNotExist(err) {
		t.Fatal("preview icon not cleaned up")
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("PHOTOMARK_NOTIFY_TITLE", "Markup")
	t.Setenv("PHOTOMARK_NOTIFY_COPY_TEXT", "Clipboard ready")
	prefs := LoadPreferences(DefaultPreferences())
	n := New(prefs)
	n.Enable(EventCopy, true)
	got := recorder(n)
	n.Copy("image")
	if len(*got) != 1 || (*got)[0].title != "Markup" || (*got)[0].body != "Clipboard ready" {
		t.Fatalf("unexpected notifications %+v", *got)
	}
	if DefaultPreferences().Title != platform.AppName {
		t.Fatal("defaults mutated by overrides")
	}
}
