package render

import (
	"html/template"
	"io"

	"github.com/glazeworks/window-storefront/internal/preview"
)

// PageData feeds the storefront page.
type PageData struct {
	ConsentBanner bool
	// ShareToken is echoed to follow-up calls of a shared page.
	ShareToken string
	Cart       template.HTML
	Preview    preview.Preview
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Window Configurator</title>
  <link rel="stylesheet" href="/css/style.css">
</head>
<body data-cart-share="{{.ShareToken}}">
  <main class="container">
    <section class="left-section">
      <form id="calculator" method="post" action="/calculate">
        <label>Height (mm) <input id="heightId" name="height" type="number" min="1" required></label>
        <label>Width (mm) <input id="widthId" name="width" type="number" min="1" required></label>
        <label>Panels
          <select id="noOfPanels" name="noOfPanels">
            <option value="2">2</option>
            <option value="3">3</option>
            <option value="4">4</option>
          </select>
        </label>
        <label>Partition
          <select id="fixedPartition" name="fixedPartition">
            <option value="noPartition">No partition</option>
            <option value="doubleFixed">Double fixed</option>
            <option value="fixedTop">Fixed top</option>
            <option value="fixedBottom">Fixed bottom</option>
            <option value="openAbleTopFxBtm">Openable top, fixed bottom</option>
            <option value="openAbleTop">Openable top</option>
          </select>
        </label>
        <label>Glass type <input id="glassType" name="glassType"></label>
        <label>Glass thickness <input id="glassThickness" name="glassThickness"></label>
        <label>Profile colour <input id="profileColour" name="profileColour"></label>
        <button type="submit" class="startButton">Calculate</button>
        <input id="cost" name="cost" readonly>
        <button type="button" id="add-to-cart">Add to cart</button>
      </form>
      <figure class="preview">
        <img id="img-type" src="{{.Preview.Image}}" alt="{{.Preview.Name}}">
        <figcaption id="type-code">{{.Preview.Code}}</figcaption>
      </figure>
    </section>
    <section class="right-section">
      <div id="cart-preview">{{.Cart}}</div>
    </section>
  </main>
  {{- if .ConsentBanner}}
  <div id="cookie-consent" class="cookie-consent">
    <p>We use a cookie to remember your cart.</p>
    <form method="post" action="/consent/accept"><button type="submit">Accept</button></form>
    <form method="post" action="/consent/reject"><button type="submit">Reject</button></form>
  </div>
  {{- end}}
</body>
</html>
`))

// WritePage renders the full storefront page.
func WritePage(w io.Writer, data PageData) error {
	return pageTemplate.Execute(w, data)
}
