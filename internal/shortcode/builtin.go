package shortcode

import (
	"fmt"
	"html/template"
	"time"

	"github.com/goliatone/go-blog/internal/widgets"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// BuiltInDefinitions returns the static shortcode catalogue shipped with the
// blog engine. The counter shortcode is constructed separately because it
// binds to the widget service.
func BuiltInDefinitions() []interfaces.ShortcodeDefinition {
	return []interfaces.ShortcodeDefinition{
		youTubeDefinition(),
		alertDefinition(),
		galleryDefinition(),
		figureDefinition(),
		codeDefinition(),
	}
}

// CounterShortcode returns the counter shortcode bound to the widget service.
// {{< counter id="sidebar-hits" >}} ensures a widget instance with a
// deterministic key and renders its current value, so the same id always
// addresses the same counter across posts and rebuilds.
func CounterShortcode(widgetSvc widgets.Service) interfaces.ShortcodeDefinition {
	return interfaces.ShortcodeDefinition{
		Name:        "counter",
		Version:     "1.0.0",
		Description: "Embeds an interactive counter widget instance",
		Category:    "interactive",
		Icon:        "plus-minus",
		AllowInner:  false,
		Schema: interfaces.ShortcodeSchema{
			Params: []interfaces.ShortcodeParam{
				{
					Name:     "id",
					Type:     interfaces.ShortcodeParamString,
					Required: true,
				},
				{
					Name: "label",
					Type: interfaces.ShortcodeParamString,
				},
				{
					Name:    "start",
					Type:    interfaces.ShortcodeParamInt,
					Default: 0,
				},
			},
		},
		Handler: func(ctx interfaces.ShortcodeContext, params map[string]any, _ string) (template.HTML, error) {
			key, _ := params["id"].(string)

			definition, err := widgetSvc.GetDefinitionByName(ctx.Context, widgets.CounterWidgetName)
			if err != nil {
				return "", err
			}

			configuration := map[string]any{}
			if label, ok := params["label"].(string); ok && label != "" {
				configuration["label"] = label
			}
			if start, ok := params["start"].(int); ok {
				configuration["start"] = start
			}

			instance, err := widgetSvc.EnsureInstance(ctx.Context, widgets.CreateInstanceInput{
				DefinitionID:  definition.ID,
				Key:           key,
				Configuration: configuration,
			})
			if err != nil {
				return "", err
			}

			rendered, err := widgetSvc.Render(ctx.Context, instance.ID)
			if err != nil {
				return "", err
			}
			return template.HTML(rendered), nil
		},
	}
}

func youTubeDefinition() interfaces.ShortcodeDefinition {
	return interfaces.ShortcodeDefinition{
		Name:        "youtube",
		Version:     "1.0.0",
		Description: "Embeds a responsive YouTube iframe player",
		Category:    "media",
		Icon:        "youtube",
		AllowInner:  false,
		CacheTTL:    time.Hour,
		Schema: interfaces.ShortcodeSchema{
			Params: []interfaces.ShortcodeParam{
				{
					Name:     "id",
					Type:     interfaces.ShortcodeParamString,
					Required: true,
				},
				{
					Name:    "start",
					Type:    interfaces.ShortcodeParamInt,
					Default: 0,
				},
				{
					Name:    "autoplay",
					Type:    interfaces.ShortcodeParamBool,
					Default: false,
				},
			},
		},
		Template: `<div class="shortcode shortcode--youtube">
  <iframe src="https://www.youtube.com/embed/{{ .id }}?start={{ .start }}{{ if .autoplay }}&autoplay=1{{ end }}" title="YouTube video" loading="lazy" allowfullscreen></iframe>
</div>`,
	}
}

func alertDefinition() interfaces.ShortcodeDefinition {
	validateType := func(value any) error {
		str, ok := value.(string)
		if !ok {
			return fmt.Errorf("alert type must be string")
		}
		switch str {
		case "info", "success", "warning", "danger":
			return nil
		default:
			return fmt.Errorf("alert type %q not supported", str)
		}
	}

	return interfaces.ShortcodeDefinition{
		Name:        "alert",
		Version:     "1.0.0",
		Description: "Displays contextual alert callouts",
		Category:    "content",
		Icon:        "alert",
		AllowInner:  true,
		Schema: interfaces.ShortcodeSchema{
			Params: []interfaces.ShortcodeParam{
				{
					Name:     "type",
					Type:     interfaces.ShortcodeParamString,
					Required: true,
					Validate: validateType,
				},
				{
					Name: "title",
					Type: interfaces.ShortcodeParamString,
				},
			},
		},
		Template: `<div class="shortcode shortcode--alert shortcode--alert-{{ .type }}">
  {{ if .title }}<div class="shortcode__title">{{ .title }}</div>{{ end }}
  <div class="shortcode__body">{{ .Inner }}</div>
</div>`,
	}
}

func galleryDefinition() interfaces.ShortcodeDefinition {
	return interfaces.ShortcodeDefinition{
		Name:        "gallery",
		Version:     "1.0.0",
		Description: "Renders an image gallery grid",
		Category:    "media",
		Icon:        "image",
		AllowInner:  false,
		Schema: interfaces.ShortcodeSchema{
			Params: []interfaces.ShortcodeParam{
				{
					Name:     "images",
					Type:     interfaces.ShortcodeParamArray,
					Required: true,
				},
				{
					Name:    "columns",
					Type:    interfaces.ShortcodeParamInt,
					Default: 3,
				},
			},
		},
		Template: `<div class="shortcode shortcode--gallery columns-{{ .columns }}">
  {{ range .images }}
    <figure class="shortcode__gallery-item">
      <img src="{{ . }}" loading="lazy" />
    </figure>
  {{ end }}
</div>`,
	}
}

func figureDefinition() interfaces.ShortcodeDefinition {
	return interfaces.ShortcodeDefinition{
		Name:        "figure",
		Version:     "1.0.0",
		Description: "Image figure with caption support",
		Category:    "media",
		Icon:        "figure",
		AllowInner:  false,
		Schema: interfaces.ShortcodeSchema{
			Params: []interfaces.ShortcodeParam{
				{
					Name:     "src",
					Type:     interfaces.ShortcodeParamURL,
					Required: true,
				},
				{
					Name:    "alt",
					Type:    interfaces.ShortcodeParamString,
					Default: "",
				},
				{
					Name: "caption",
					Type: interfaces.ShortcodeParamString,
				},
			},
		},
		Template: `<figure class="shortcode shortcode--figure">
  <img src="{{ .src }}" alt="{{ .alt }}" loading="lazy" />
  {{ if .caption }}<figcaption>{{ .caption }}</figcaption>{{ end }}
</figure>`,
	}
}

func codeDefinition() interfaces.ShortcodeDefinition {
	return interfaces.ShortcodeDefinition{
		Name:        "code",
		Version:     "1.0.0",
		Description: "Syntax highlighted code block",
		Category:    "content",
		Icon:        "code",
		AllowInner:  true,
		Schema: interfaces.ShortcodeSchema{
			Params: []interfaces.ShortcodeParam{
				{
					Name:     "lang",
					Type:     interfaces.ShortcodeParamString,
					Required: true,
				},
				{
					Name: "title",
					Type: interfaces.ShortcodeParamString,
				},
				{
					Name:    "line_numbers",
					Type:    interfaces.ShortcodeParamBool,
					Default: true,
				},
			},
		},
		Template: `<div class="shortcode shortcode--code">
  {{ if .title }}<div class="shortcode__code-title">{{ .title }}</div>{{ end }}
  <pre class="shortcode__code-block language-{{ .lang }}{{ if .line_numbers }} shortcode__code-block--lines{{ end }}"><code>{{ .InnerText }}</code></pre>
</div>`,
	}
}
