package swagger

import (
	"net/http"
	"text/template"

	"github.com/gin-gonic/gin"
)

// SwaggerConfig controls the rendered API console page
type SwaggerConfig struct {
	Title         string
	SwaggerDocURL string
	AuthURL       string
}

const swaggerHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>{{.Title}}</title>
    <link rel="stylesheet" type="text/css" href="https://unpkg.com/swagger-ui-dist@4.15.5/swagger-ui-bundle.css" />
    <link rel="icon" type="image/png" href="https://unpkg.com/swagger-ui-dist@4.15.5/favicon-32x32.png" sizes="32x32" />
    <style>
        html {
            box-sizing: border-box;
            overflow: -moz-scrollbars-vertical;
            overflow-y: scroll;
        }
        *, *:before, *:after {
            box-sizing: inherit;
        }
        body {
            margin: 0;
            background: #fafafa;
        }
        #swagger-ui {
            max-width: none !important;
        }
    </style>
</head>
<body>
    <div id="swagger-ui"></div>

    <script src="https://unpkg.com/swagger-ui-dist@4.15.5/swagger-ui-bundle.js" charset="UTF-8"> </script>
    <script src="https://unpkg.com/swagger-ui-dist@4.15.5/swagger-ui-standalone-preset.js" charset="UTF-8"> </script>
    <script>
        window.AUTH_URL = "{{.AuthURL}}";

        window.onload = function() {
            const ui = SwaggerUIBundle({
                url: '{{.SwaggerDocURL}}',
                dom_id: '#swagger-ui',
                deepLinking: true,
                persistAuthorization: true,
                presets: [
                    SwaggerUIBundle.presets.apis,
                    SwaggerUIStandalonePreset
                ],
                plugins: [
                    SwaggerUIBundle.plugins.DownloadUrl
                ],
                layout: "StandaloneLayout",
                requestInterceptor: function(request) {
                    const token = window.localStorage.getItem('bearer_token');
                    if (token) {
                        request.headers['Authorization'] = 'Bearer ' + token;
                    }
                    return request;
                },
                responseInterceptor: function(response) {
                    if (response.url.endsWith(window.AUTH_URL) && response.status === 200) {
                        try {
                            const body = JSON.parse(response.text);
                            if (body.token) {
                                window.localStorage.setItem('bearer_token', body.token);
                            }
                        } catch (e) {
                            // non-JSON response, nothing to capture
                        }
                    }
                    return response;
                }
            });
            window.ui = ui;
        };
    </script>
</body>
</html>`

// Handler serves the Swagger UI console. Successful sign-ins through the
// console persist the bearer token so subsequent try-it-out calls carry it.
// The template only interpolates operator config into script context, so
// text/template keeps the URLs unescaped.
func Handler(cfg SwaggerConfig) gin.HandlerFunc {
	tmpl := template.Must(template.New("swagger").Parse(swaggerHTML))
	return func(c *gin.Context) {
		c.Status(http.StatusOK)
		c.Header("Content-Type", "text/html; charset=utf-8")
		if err := tmpl.Execute(c.Writer, cfg); err != nil {
			c.AbortWithStatus(http.StatusInternalServerError)
		}
	}
}
