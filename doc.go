// Package slots renders templates built from reusable components with named
// slots.
//
// A component is an ordinary template that prints its slots as variables:
//
//	{# card.html #}
//	<h1>Card</h1>
//	<div>{{ body }}</div>
//	<h2>Footer</h2>
//	{{ footer }}
//
// A page fills the slots with the component tag. Markup inside a section tag
// goes to the slot of that name, everything else goes to body:
//
//	{% component "card" title=page.title %}
//	    <p>My content</p>
//	    {% section footer %}Bye{% endsection %}
//	{% endcomponent %}
//
// Slots are rendered with the page's data. The component template itself
// sees only its slots and the key=value props, never the page's variables,
// and does not escape them again.
//
// The wrapper tag renders decoration around a value only when the value is
// not blank:
//
//	{% wrapper footer %}<h2>Footer</h2>{{ footer }}{% endwrapper %}
//
// Templates are loaded by an [Engine] from an fs.FS and compiled once;
// compiled templates are safe for concurrent use.
package slots
