/*
Package codec converts pages of locators to and from their serialized documents.

Page documents are XML and hold exactly one page:

	<locators>
	  <page name="Login">
	    <locator name="submit" automationId="btnSubmit" elementName="Submit" className="Button">
	      <strategy type="xpath" value="//Button[@Name='Submit']" priority="0"></strategy>
	    </locator>
	  </page>
	</locators>

The locator's "name" attribute is its key on the page; the element's UI Name
property is written as "elementName". Strategies are written in stored order.

Collections of pages are exchanged either in the same XML vocabulary (FormatXML)
or as a flat JSON object mapping page name to locator name to attributes
(FormatJSON).
*/
package codec
